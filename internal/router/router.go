package router

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/berth-dev/playback/internal/conversation"
	"github.com/berth-dev/playback/internal/log"
	"github.com/berth-dev/playback/internal/playback"
)

// Default delays.
const (
	DefaultReplyDelay = 1000 * time.Millisecond
	DefaultStageDelay = 2000 * time.Millisecond

	// NoDelay makes the router reply without waiting.
	NoDelay time.Duration = -1
)

// Options configures a Router. Zero values select defaults, each keyword
// set and delay on its own. Use NoDelay to skip a wait.
type Options struct {
	Keywords   Keywords
	ReplyDelay time.Duration
	StageDelay time.Duration
	Tick       time.Duration
	Clock      playback.Clock
	Logger     *zap.Logger
	Journal    *log.Logger
}

// Router produces assistant replies when no scenario is playing. Its flows
// run on the caller's goroutine and are not affected by playback controls;
// only ctx aborts them.
type Router struct {
	store   *conversation.Store
	signals *conversation.Signals
	opts    Options
	logger  *zap.Logger
}

// New creates a Router writing to store and signals.
func New(store *conversation.Store, signals *conversation.Signals, opts Options) *Router {
	opts.Keywords = opts.Keywords.withDefaults()
	opts.ReplyDelay = delayOrDefault(opts.ReplyDelay, DefaultReplyDelay)
	opts.StageDelay = delayOrDefault(opts.StageDelay, DefaultStageDelay)
	if opts.Tick <= 0 {
		opts.Tick = playback.Tick
	}
	if opts.Clock == nil {
		opts.Clock = playback.RealClock{}
	}
	return &Router{
		store:   store,
		signals: signals,
		opts:    opts,
		logger:  log.OrNop(opts.Logger),
	}
}

func delayOrDefault(d, def time.Duration) time.Duration {
	switch {
	case d == 0:
		return def
	case d < 0:
		return 0
	}
	return d
}

// Respond answers text, which the caller has already appended as an
// operator message.
func (r *Router) Respond(ctx context.Context, text string) (Intent, error) {
	intent := Classify(text, r.opts.Keywords)
	r.logger.Debug("routing message", zap.String("intent", string(intent)))
	r.record(log.LogEvent{Event: log.EventIntentRouted, Intent: string(intent), Text: text})

	if err := r.typing(ctx, r.opts.ReplyDelay); err != nil {
		return intent, err
	}

	switch intent {
	case IntentAudience:
		return intent, r.selectAudience(ctx)
	case IntentMissingAccount:
		msg := conversation.AssistantMessage(ReplyMissingAccount)
		msg.IsError = true
		_, err := r.store.Append(msg)
		return intent, err
	default:
		_, err := r.store.Append(conversation.AssistantMessage(ReplyAcknowledge))
		return intent, err
	}
}

func (r *Router) selectAudience(ctx context.Context) error {
	pipeline := conversation.AssistantMessage(ReplyPipeline)
	pipeline.Tasks = pipelineTasks(false)
	if _, err := r.store.Append(pipeline); err != nil {
		return err
	}
	if err := r.wait(ctx, r.opts.StageDelay); err != nil {
		return err
	}
	if _, err := r.store.PatchLast(conversation.Patch{Tasks: pipelineTasks(true)}.Apply); err != nil {
		return fmt.Errorf("completing audience task: %w", err)
	}
	_, err := r.store.Append(audienceMessage())
	return err
}

// ConfirmAudience accepts the proposed audience and walks the remaining
// pipeline stages to completion.
func (r *Router) ConfirmAudience(ctx context.Context) error {
	r.record(log.LogEvent{Event: log.EventAudienceConfirmed})
	if _, err := r.store.Append(conversation.UserMessage(ConfirmText)); err != nil {
		return err
	}
	if err := r.typing(ctx, r.opts.ReplyDelay); err != nil {
		return err
	}

	msg := conversation.AssistantMessage(ReplyGenerating)
	msg.Tasks = deliveryTasks(0)
	if _, err := r.store.Append(msg); err != nil {
		return err
	}

	stages := []conversation.Patch{
		{Content: conversation.WithContent(ReplyPushing), Tasks: deliveryTasks(1)},
		{Content: conversation.WithContent(ReplyFinished), Tasks: deliveryTasks(2)},
	}
	for i, p := range stages {
		if err := r.wait(ctx, r.opts.StageDelay); err != nil {
			return err
		}
		if _, err := r.store.PatchLast(p.Apply); err != nil {
			return fmt.Errorf("delivery stage %d: %w", i+1, err)
		}
	}
	return nil
}

// RejectAudience declines the proposed audience and asks how to adjust it.
func (r *Router) RejectAudience(ctx context.Context) error {
	r.record(log.LogEvent{Event: log.EventAudienceRejected})
	if _, err := r.store.Append(conversation.UserMessage(RejectText)); err != nil {
		return err
	}
	if err := r.typing(ctx, r.opts.ReplyDelay); err != nil {
		return err
	}
	_, err := r.store.Append(conversation.AssistantMessage(ReplyAdjust))
	return err
}

// typing shows the typing indicator for d.
func (r *Router) typing(ctx context.Context, d time.Duration) error {
	r.signals.SetTyping(true)
	defer r.signals.SetTyping(false)
	return r.wait(ctx, d)
}

func (r *Router) wait(ctx context.Context, d time.Duration) error {
	return playback.Wait(ctx, r.opts.Clock, r.opts.Tick, d, nil)
}

func (r *Router) record(event log.LogEvent) {
	if r.opts.Journal == nil {
		return
	}
	if err := r.opts.Journal.Append(event); err != nil {
		r.logger.Warn("journal append failed", zap.String("event", event.Event), zap.Error(err))
	}
}
