package conversation

import "sync"

// SignalState is a snapshot of the presentation signals.
type SignalState struct {
	Typing         bool
	ProfileSubject string
	Composer       string
}

// Signals holds the transient presentation state the rendering layer
// observes alongside the log: typing indicator, profile overlay and the
// composer text.
type Signals struct {
	mu       sync.RWMutex
	state    SignalState
	notifier *Notifier
}

// NewSignals creates idle Signals. notifier may be nil.
func NewSignals(notifier *Notifier) *Signals {
	return &Signals{notifier: notifier}
}

// Snapshot returns the current signal values.
func (s *Signals) Snapshot() SignalState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SetTyping toggles the typing indicator.
func (s *Signals) SetTyping(on bool) {
	s.update(func(st *SignalState) { st.Typing = on })
}

// ShowProfile opens the profile overlay for subject.
func (s *Signals) ShowProfile(subject string) {
	s.update(func(st *SignalState) { st.ProfileSubject = subject })
}

// HideProfile closes the profile overlay.
func (s *Signals) HideProfile() {
	s.update(func(st *SignalState) { st.ProfileSubject = "" })
}

// SetComposer replaces the composer text.
func (s *Signals) SetComposer(text string) {
	s.update(func(st *SignalState) { st.Composer = text })
}

// AppendComposer reveals one more unit of composer text.
func (s *Signals) AppendComposer(unit string) {
	s.update(func(st *SignalState) { st.Composer += unit })
}

// ClearTransient resets every signal.
func (s *Signals) ClearTransient() {
	s.update(func(st *SignalState) { *st = SignalState{} })
}

func (s *Signals) update(fn func(*SignalState)) {
	s.mu.Lock()
	before := s.state
	fn(&s.state)
	changed := before != s.state
	s.mu.Unlock()

	if changed {
		s.notifier.Notify()
	}
}
