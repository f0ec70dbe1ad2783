package router

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berth-dev/playback/internal/conversation"
	"github.com/berth-dev/playback/internal/log"
	"github.com/berth-dev/playback/internal/playback"
	"github.com/berth-dev/playback/internal/testutil"
)

func TestClassify(t *testing.T) {
	kw := DefaultKeywords()
	tests := []struct {
		text string
		want Intent
	}{
		{"帮我圈选高意向客户", IntentAudience},
		{"看看这个人群包", IntentAudience},
		{"圈选后推送，不指定账号", IntentAudience},
		{"帮我推送一下", IntentMissingAccount},
		{"用店长账号推送", IntentAcknowledge},
		{"你好", IntentAcknowledge},
		{"", IntentAcknowledge},
	}
	for _, tt := range tests {
		if got := Classify(tt.text, kw); got != tt.want {
			t.Errorf("Classify(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestClassifyCustomKeywords(t *testing.T) {
	kw := Keywords{Audience: []string{"segment"}, Push: []string{"send"}, Account: []string{"as"}}
	assert.Equal(t, IntentAudience, Classify("build a segment", kw))
	assert.Equal(t, IntentMissingAccount, Classify("send it", kw))
	assert.Equal(t, IntentAcknowledge, Classify("send it as alice", kw))
}

type fixture struct {
	store   *conversation.Store
	signals *conversation.Signals
	router  *Router
	journal *log.Logger
	tails   []conversation.Message
	typing  []bool
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	journal, err := log.NewLogger(t.TempDir())
	require.NoError(t, err)

	f := &fixture{
		store:   conversation.NewStore(nil),
		signals: conversation.NewSignals(nil),
		journal: journal,
	}
	clock := &testutil.InstantClock{OnTick: func(int) {
		if m, ok := f.store.Last(); ok {
			f.tails = append(f.tails, m)
		}
		f.typing = append(f.typing, f.signals.Snapshot().Typing)
	}}
	f.router = New(f.store, f.signals, Options{Clock: clock, Journal: journal})
	f.store.Reset(conversation.AssistantMessage("greeting"))
	return f
}

func (f *fixture) say(t *testing.T, text string) Intent {
	t.Helper()
	_, err := f.store.Append(conversation.UserMessage(text))
	require.NoError(t, err)
	intent, err := f.router.Respond(context.Background(), text)
	require.NoError(t, err)
	return intent
}

func TestRespondMissingAccount(t *testing.T) {
	f := newFixture(t)
	before := f.store.Len()

	assert.Equal(t, IntentMissingAccount, f.say(t, "帮我推送给客户"))

	msgs := f.store.Messages()
	require.Len(t, msgs, before+2)
	reply := msgs[len(msgs)-1]
	assert.True(t, reply.IsError)
	assert.Empty(t, reply.Tasks)
	assert.Equal(t, ReplyMissingAccount, reply.Content)
	assert.Equal(t, conversation.RoleAssistant, reply.Role)
}

func TestRespondAcknowledge(t *testing.T) {
	f := newFixture(t)
	f.say(t, "你好")

	last, _ := f.store.Last()
	assert.Equal(t, ReplyAcknowledge, last.Content)
	assert.False(t, last.IsError)
	assert.False(t, f.signals.Snapshot().Typing)
	// 1000ms reply delay on 100ms ticks, typing shown throughout.
	require.Len(t, f.typing, 10)
	for _, on := range f.typing {
		assert.True(t, on)
	}
}

func TestRespondAudience(t *testing.T) {
	f := newFixture(t)
	f.say(t, "帮我圈选一批客户")

	msgs := f.store.Messages()
	require.Len(t, msgs, 4)

	pipeline := msgs[2]
	assert.Equal(t, ReplyPipeline, pipeline.Content)
	require.Len(t, pipeline.Tasks, 3)
	assert.Equal(t, conversation.TaskDone, pipeline.Tasks[0].Status)
	assert.Equal(t, 100, pipeline.Tasks[0].Progress)
	assert.Equal(t, conversation.TaskPending, pipeline.Tasks[1].Status)

	var sawProcessing bool
	for _, m := range f.tails {
		if m.ID == pipeline.ID && m.Tasks[0].Status == conversation.TaskProcessing {
			assert.Equal(t, 50, m.Tasks[0].Progress)
			sawProcessing = true
		}
	}
	assert.True(t, sawProcessing)

	audience := msgs[3]
	require.NotNil(t, audience.AudienceCard)
	assert.Equal(t, AudienceTotal, audience.AudienceCard.TotalCount)
	require.Len(t, audience.AudienceCard.Samples, 3)
	assert.Equal(t, "张女士", audience.AudienceCard.Samples[0].Name)
}

func TestConfirmAudience(t *testing.T) {
	f := newFixture(t)
	f.say(t, "圈选人群")
	f.tails = nil

	require.NoError(t, f.router.ConfirmAudience(context.Background()))

	msgs := f.store.Messages()
	user := msgs[len(msgs)-2]
	assert.Equal(t, ConfirmText, user.Content)
	assert.Equal(t, conversation.RoleUser, user.Role)

	final := msgs[len(msgs)-1]
	assert.Equal(t, ReplyFinished, final.Content)
	for _, task := range final.Tasks {
		assert.Equal(t, conversation.TaskDone, task.Status)
	}

	var contents []string
	for _, m := range f.tails {
		if m.ID == final.ID && (len(contents) == 0 || contents[len(contents)-1] != m.Content) {
			contents = append(contents, m.Content)
		}
	}
	assert.Equal(t, []string{ReplyGenerating, ReplyPushing}, contents)
}

func TestRejectAudience(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.router.RejectAudience(context.Background()))

	msgs := f.store.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, RejectText, msgs[1].Content)
	assert.Equal(t, ReplyAdjust, msgs[2].Content)
}

func TestRespondCancelled(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.router.Respond(ctx, "你好")
	if !errors.Is(err, playback.ErrStopped) {
		t.Fatalf("Respond() error = %v, want ErrStopped", err)
	}
	assert.Equal(t, 1, f.store.Len())
	assert.False(t, f.signals.Snapshot().Typing)
}

func TestJournal(t *testing.T) {
	f := newFixture(t)
	f.say(t, "你好")
	require.NoError(t, f.router.RejectAudience(context.Background()))

	events, err := f.journal.ReadAll()
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, log.EventIntentRouted, events[0].Event)
	assert.Equal(t, string(IntentAcknowledge), events[0].Intent)
	assert.Equal(t, log.EventAudienceRejected, events[1].Event)
}

func TestNewDefaultsEachOption(t *testing.T) {
	r := New(conversation.NewStore(nil), conversation.NewSignals(nil), Options{
		Keywords:   Keywords{Push: []string{"send"}},
		StageDelay: 300 * time.Millisecond,
	})

	assert.Equal(t, []string{"send"}, r.opts.Keywords.Push)
	assert.Equal(t, DefaultKeywords().Audience, r.opts.Keywords.Audience)
	assert.Equal(t, DefaultKeywords().Account, r.opts.Keywords.Account)
	assert.Equal(t, IntentAudience, Classify("帮我圈选客户", r.opts.Keywords))
	assert.Equal(t, DefaultReplyDelay, r.opts.ReplyDelay)
	assert.Equal(t, 300*time.Millisecond, r.opts.StageDelay)
}

func TestRespondNoDelay(t *testing.T) {
	ticks := 0
	store := conversation.NewStore(nil)
	r := New(store, conversation.NewSignals(nil), Options{
		Clock:      &testutil.InstantClock{OnTick: func(int) { ticks++ }},
		ReplyDelay: NoDelay,
		StageDelay: NoDelay,
	})
	store.Reset(conversation.AssistantMessage("greeting"))

	_, err := store.Append(conversation.UserMessage("帮我圈选一批客户"))
	require.NoError(t, err)
	_, err = r.Respond(context.Background(), "帮我圈选一批客户")
	require.NoError(t, err)

	assert.Zero(t, ticks)
	assert.Equal(t, 4, store.Len())
}
