// Package playback runs scripted scenarios against the conversation log.
package playback

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/berth-dev/playback/internal/conversation"
	"github.com/berth-dev/playback/internal/log"
)

// PlaybackState is the observable state of the scheduler.
type PlaybackState struct {
	IsPlaying        bool
	IsPaused         bool
	ActiveScenarioID string
}

// Lookup resolves scenario ids.
type Lookup interface {
	Lookup(id string) (Scenario, bool)
}

// Options configures a Scheduler. Zero values select defaults.
type Options struct {
	Clock    Clock
	Pacing   Pacing
	Seed     conversation.Message // log contents when a run starts
	Logger   *zap.Logger
	Journal  *log.Logger
	Notifier *conversation.Notifier
}

// Scheduler interprets one Scenario at a time. Runs execute on their own
// goroutine; at most one run is alive and a new run only touches the log
// after the previous one has returned.
type Scheduler struct {
	store     *conversation.Store
	signals   *conversation.Signals
	scenarios Lookup
	clock     Clock
	pacing    Pacing
	seed      conversation.Message
	logger    *zap.Logger
	journal   *log.Logger
	notifier  *conversation.Notifier

	startMu sync.Mutex // serializes Start

	mu    sync.Mutex
	state PlaybackState
	token *Token
	done  chan struct{}
}

// NewScheduler creates an idle Scheduler.
func NewScheduler(store *conversation.Store, signals *conversation.Signals, scenarios Lookup, opts Options) *Scheduler {
	if opts.Clock == nil {
		opts.Clock = RealClock{}
	}
	if opts.Pacing == (Pacing{}) {
		opts.Pacing = DefaultPacing()
	}
	if opts.Seed.Content == "" {
		opts.Seed = conversation.AssistantMessage("您好！我是 365私域管家。演示模式已启动。")
	}
	return &Scheduler{
		store:     store,
		signals:   signals,
		scenarios: scenarios,
		clock:     opts.Clock,
		pacing:    opts.Pacing.withDefaults(),
		seed:      opts.Seed,
		logger:    log.OrNop(opts.Logger),
		journal:   opts.Journal,
		notifier:  opts.Notifier,
	}
}

// State returns a snapshot of the playback state.
func (s *Scheduler) State() PlaybackState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start begins playing scenarioID. Unknown ids are ignored and Start
// returns false. A run already in progress is stopped, and Start waits
// until it has unwound before resetting the log.
func (s *Scheduler) Start(scenarioID string) bool {
	sc, ok := s.scenarios.Lookup(scenarioID)
	if !ok {
		s.logger.Debug("ignoring unknown scenario", zap.String("scenario", scenarioID))
		return false
	}

	s.startMu.Lock()
	defer s.startMu.Unlock()

	s.Stop()
	s.Wait()

	tok := NewToken(context.Background())
	done := make(chan struct{})

	s.mu.Lock()
	s.token = tok
	s.done = done
	s.state = PlaybackState{IsPlaying: true, ActiveScenarioID: sc.ID}
	s.mu.Unlock()
	s.notifier.Notify()

	s.signals.ClearTransient()
	s.store.Reset(s.seed)

	s.logger.Info("scenario started", zap.String("scenario", sc.ID), zap.Int("steps", len(sc.Steps)))
	s.record(log.LogEvent{Event: log.EventScenarioStarted, ScenarioID: sc.ID, Steps: len(sc.Steps)})

	go s.run(tok, sc, done)
	return true
}

// Pause holds the active run at its current position.
func (s *Scheduler) Pause() { s.setPaused(true) }

// Resume releases a held run.
func (s *Scheduler) Resume() { s.setPaused(false) }

// TogglePause flips the paused flag of the active run.
func (s *Scheduler) TogglePause() {
	s.mu.Lock()
	paused := s.state.IsPaused
	s.mu.Unlock()
	s.setPaused(!paused)
}

func (s *Scheduler) setPaused(paused bool) {
	s.mu.Lock()
	if !s.state.IsPlaying || s.state.IsPaused == paused {
		s.mu.Unlock()
		return
	}
	s.state.IsPaused = paused
	tok := s.token
	s.mu.Unlock()

	if tok != nil {
		tok.SetPaused(paused)
	}
	s.notifier.Notify()
}

// Stop marks playback idle and cancels the active run. It does not wait
// for the run to unwind and leaves the log as it is.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	tok := s.token
	changed := s.state != PlaybackState{}
	s.state = PlaybackState{}
	s.mu.Unlock()

	if tok != nil {
		tok.Stop()
	}
	if changed {
		s.notifier.Notify()
	}
}

// Wait blocks until the most recent run has returned.
func (s *Scheduler) Wait() {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (s *Scheduler) run(tok *Token, sc Scenario, done chan struct{}) {
	started := time.Now()
	step := 0

	defer close(done)
	defer s.finish(tok)
	defer func() {
		if r := recover(); r != nil {
			s.fail(sc, step, fmt.Errorf("panic: %v", r))
		}
	}()

	for i, st := range sc.Steps {
		step = i
		if err := s.exec(tok, st); err != nil {
			if errors.Is(err, ErrStopped) {
				s.logger.Info("scenario stopped", zap.String("scenario", sc.ID), zap.Int("step", i))
				s.record(log.LogEvent{
					Event:      log.EventScenarioStopped,
					ScenarioID: sc.ID,
					Step:       i,
					Kind:       string(st.Kind),
					Messages:   s.store.Len(),
				})
				return
			}
			s.fail(sc, i, err)
			return
		}
	}

	s.logger.Info("scenario completed", zap.String("scenario", sc.ID), zap.Duration("elapsed", time.Since(started)))
	s.record(log.LogEvent{
		Event:      log.EventScenarioCompleted,
		ScenarioID: sc.ID,
		Steps:      len(sc.Steps),
		Messages:   s.store.Len(),
		DurationMs: time.Since(started).Milliseconds(),
	})
}

// finish returns the scheduler to idle if tok is still the installed run.
func (s *Scheduler) finish(tok *Token) {
	s.mu.Lock()
	current := s.token == tok
	changed := false
	if current {
		changed = s.state != PlaybackState{}
		s.state = PlaybackState{}
		s.token = nil
	}
	s.mu.Unlock()

	tok.Stop()
	if current {
		s.signals.ClearTransient()
	}
	if changed {
		s.notifier.Notify()
	}
}

func (s *Scheduler) fail(sc Scenario, step int, err error) {
	s.logger.Error("scenario aborted", zap.String("scenario", sc.ID), zap.Int("step", step), zap.Error(err))
	s.record(log.LogEvent{
		Event:      log.EventScenarioFailed,
		ScenarioID: sc.ID,
		Step:       step,
		Error:      err.Error(),
	})
}

func (s *Scheduler) record(event log.LogEvent) {
	if s.journal == nil {
		return
	}
	if err := s.journal.Append(event); err != nil {
		s.logger.Warn("journal append failed", zap.String("event", event.Event), zap.Error(err))
	}
}

func (s *Scheduler) wait(tok *Token, d time.Duration) error {
	return tok.Wait(s.clock, s.pacing.Tick, d)
}

// exec translates one step into store and signal calls.
func (s *Scheduler) exec(tok *Token, st Step) error {
	if tok.Stopped() {
		return ErrStopped
	}
	p := s.pacing

	switch st.Kind {
	case StepWait:
		return s.wait(tok, st.Duration)

	case StepType:
		return s.typeText(tok, st.Text)

	case StepUser:
		if _, err := s.store.Append(conversation.UserMessage(st.Text)); err != nil {
			return err
		}
		return s.wait(tok, p.UserTrail)

	case StepAssistant:
		if st.Message == nil {
			return fmt.Errorf("%w: assistant needs a message", ErrInvalidStep)
		}
		s.signals.SetTyping(true)
		if err := s.wait(tok, p.AssistantTyping); err != nil {
			return err
		}
		s.signals.SetTyping(false)

		msg := st.Message.Clone()
		msg.ID = ""
		msg.Role = conversation.RoleAssistant
		msg.Timestamp = time.Time{}
		if _, err := s.store.Append(msg); err != nil {
			return err
		}
		return s.wait(tok, p.AssistantTrail)

	case StepPatch:
		if st.Patch == nil {
			return fmt.Errorf("%w: patch needs a patch", ErrInvalidStep)
		}
		if _, err := s.store.PatchLast(st.Patch.Apply); err != nil {
			return err
		}
		return s.wait(tok, p.PatchTrail)

	case StepShowProfile:
		s.signals.ShowProfile(st.Subject)
		return nil

	case StepHideProfile:
		s.signals.HideProfile()
		return nil
	}

	return fmt.Errorf("%w: unknown kind %q", ErrInvalidStep, st.Kind)
}

// typeText reveals text in the composer one rune per tick.
func (s *Scheduler) typeText(tok *Token, text string) error {
	s.signals.SetComposer("")
	for _, r := range text {
		s.signals.AppendComposer(string(r))
		if err := s.wait(tok, s.pacing.CharDelay); err != nil {
			return err
		}
	}
	if err := s.wait(tok, s.pacing.TypeHold); err != nil {
		return err
	}
	s.signals.SetComposer("")
	return nil
}
