// Package assistant wires the conversation log, the scenario scheduler and
// the fallback router behind the operations a rendering layer invokes.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/berth-dev/playback/internal/catalog"
	"github.com/berth-dev/playback/internal/conversation"
	"github.com/berth-dev/playback/internal/log"
	"github.com/berth-dev/playback/internal/playback"
	"github.com/berth-dev/playback/internal/router"
)

// Greeting texts.
const (
	Greeting        = "您好！我是 365私域管家。您可以直接输入需求，或者使用 `/` 唤起指令，使用 `@` 引用人群包。"
	SessionGreeting = "您好！我是 365私域管家。"
	DemoGreeting    = "您好！我是 365私域管家。演示模式已启动。"
)

var (
	// ErrPlaying is returned for operator input while a scenario plays.
	ErrPlaying = errors.New("a scenario is playing")
	// ErrBusy is returned while a previous reply is still being produced.
	ErrBusy = errors.New("assistant is busy")
	// ErrEmptyMessage is returned for blank operator input.
	ErrEmptyMessage = errors.New("empty message")
)

// Navigation is a destination requested by an action button.
type Navigation string

const (
	NavTasks    Navigation = "tasks"
	NavAudience Navigation = "audience"
)

var navigations = map[string]Navigation{
	"goto_tasks":    NavTasks,
	"goto_audience": NavAudience,
}

// Options configures an Assistant.
type Options struct {
	Catalog *catalog.Catalog
	Clock   playback.Clock
	Pacing  playback.Pacing
	Router  router.Options
	Logger  *zap.Logger
	Journal *log.Logger
}

// Assistant is the single entry point of a rendering layer. Scenario runs
// and router flows both write the conversation log; flowMu keeps them from
// interleaving.
type Assistant struct {
	notifier *conversation.Notifier
	store    *conversation.Store
	signals  *conversation.Signals
	sched    *playback.Scheduler
	router   *router.Router
	catalog  *catalog.Catalog
	logger   *zap.Logger
	journal  *log.Logger

	flowMu sync.Mutex
}

// New builds an Assistant whose log holds the initial greeting.
func New(opts Options) *Assistant {
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}
	logger := log.OrNop(opts.Logger)

	notifier := conversation.NewNotifier()
	store := conversation.NewStore(notifier)
	signals := conversation.NewSignals(notifier)

	sched := playback.NewScheduler(store, signals, opts.Catalog, playback.Options{
		Clock:    opts.Clock,
		Pacing:   opts.Pacing,
		Seed:     conversation.AssistantMessage(DemoGreeting),
		Logger:   logger.Named("playback"),
		Journal:  opts.Journal,
		Notifier: notifier,
	})

	ropts := opts.Router
	if ropts.Clock == nil {
		ropts.Clock = opts.Clock
	}
	if ropts.Tick <= 0 {
		ropts.Tick = opts.Pacing.Tick
	}
	ropts.Logger = logger.Named("router")
	ropts.Journal = opts.Journal

	a := &Assistant{
		notifier: notifier,
		store:    store,
		signals:  signals,
		sched:    sched,
		router:   router.New(store, signals, ropts),
		catalog:  opts.Catalog,
		logger:   logger,
		journal:  opts.Journal,
	}
	store.Reset(conversation.AssistantMessage(Greeting))
	return a
}

// Start plays scenarioID from the demo greeting. A reply still being
// produced by the router is allowed to finish first.
func (a *Assistant) Start(scenarioID string) bool {
	a.flowMu.Lock()
	defer a.flowMu.Unlock()
	return a.sched.Start(scenarioID)
}

func (a *Assistant) Pause()       { a.sched.Pause() }
func (a *Assistant) Resume()      { a.sched.Resume() }
func (a *Assistant) TogglePause() { a.sched.TogglePause() }
func (a *Assistant) Stop()        { a.sched.Stop() }

// Wait blocks until the current scenario run has returned.
func (a *Assistant) Wait() { a.sched.Wait() }

// NewSession stops playback and starts over with a short greeting.
func (a *Assistant) NewSession() {
	a.flowMu.Lock()
	defer a.flowMu.Unlock()

	a.sched.Stop()
	a.sched.Wait()
	a.signals.ClearTransient()
	a.store.Reset(conversation.AssistantMessage(SessionGreeting))

	a.logger.Info("session reset")
	a.record(log.LogEvent{Event: log.EventSessionReset})
}

// SendUserMessage appends text as an operator message and produces the
// router's reply before returning.
func (a *Assistant) SendUserMessage(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}
	return a.flow(func() error {
		if _, err := a.store.Append(conversation.UserMessage(text)); err != nil {
			return err
		}
		_, err := a.router.Respond(ctx, text)
		return err
	})
}

// ConfirmAudience accepts the audience proposed by the router.
func (a *Assistant) ConfirmAudience(ctx context.Context) error {
	return a.flow(func() error { return a.router.ConfirmAudience(ctx) })
}

// RejectAudience declines the audience proposed by the router.
func (a *Assistant) RejectAudience(ctx context.Context) error {
	return a.flow(func() error { return a.router.RejectAudience(ctx) })
}

func (a *Assistant) flow(fn func() error) error {
	if a.sched.State().IsPlaying {
		return ErrPlaying
	}
	if !a.flowMu.TryLock() {
		return ErrBusy
	}
	defer a.flowMu.Unlock()

	// Start may have slipped in between the first check and the lock.
	if a.sched.State().IsPlaying {
		return ErrPlaying
	}
	if err := fn(); err != nil {
		a.logger.Warn("reply aborted", zap.Error(err))
		return fmt.Errorf("reply: %w", err)
	}
	return nil
}

// OnActionButton maps an action id to a navigation target. It never
// touches the conversation log.
func (a *Assistant) OnActionButton(action string) (Navigation, bool) {
	nav, ok := navigations[action]
	return nav, ok
}

// Messages returns a snapshot of the conversation log.
func (a *Assistant) Messages() []conversation.Message { return a.store.Messages() }

// Signals returns a snapshot of the presentation signals.
func (a *Assistant) Signals() conversation.SignalState { return a.signals.Snapshot() }

// State returns a snapshot of the playback state.
func (a *Assistant) State() playback.PlaybackState { return a.sched.State() }

// Subscribe registers for change notifications.
func (a *Assistant) Subscribe() (<-chan struct{}, func()) { return a.notifier.Subscribe() }

// Scenarios lists the playable scenarios.
func (a *Assistant) Scenarios() []playback.Scenario { return a.catalog.List() }

// Profile looks up a customer profile for the overlay.
func (a *Assistant) Profile(id string) (catalog.Profile, bool) { return a.catalog.Profile(id) }

func (a *Assistant) record(event log.LogEvent) {
	if a.journal == nil {
		return
	}
	if err := a.journal.Append(event); err != nil {
		a.logger.Warn("journal append failed", zap.String("event", event.Event), zap.Error(err))
	}
}
