package conversation

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrEmptyLog matches any *EmptyLogError via errors.Is.
var ErrEmptyLog = errors.New("conversation log is empty")

// ErrTaskRegression is returned when a patch would move a finished task
// backwards.
var ErrTaskRegression = errors.New("task regression")

// EmptyLogError is returned by PatchLast when there is nothing to patch.
type EmptyLogError struct{}

func (*EmptyLogError) Error() string        { return ErrEmptyLog.Error() }
func (*EmptyLogError) Is(target error) bool { return target == ErrEmptyLog }

// Store is the ordered, append-only conversation log. Only the tail entry
// may change after it is appended, and only through PatchLast.
type Store struct {
	mu       sync.RWMutex
	messages []Message
	notifier *Notifier
	now      func() time.Time
}

// NewStore creates an empty Store. notifier may be nil.
func NewStore(notifier *Notifier) *Store {
	return &Store{notifier: notifier, now: time.Now}
}

// Append inserts msg at the tail, assigning an ID and timestamp when they
// are missing, and returns the stored copy.
func (s *Store) Append(msg Message) (Message, error) {
	msg = msg.Clone()
	msg.normalize()
	if err := msg.validateTasks(); err != nil {
		return Message{}, fmt.Errorf("append message: %w", err)
	}
	if msg.ID == "" {
		msg.ID = newID()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = s.now()
	}

	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()

	s.notifier.Notify()
	return msg.Clone(), nil
}

// PatchLast replaces the tail entry with fn(tail). The tail's ID, role and
// timestamp survive the patch. The role of the tail is not checked. The
// result of fn is copied, so the caller keeps no handle on the stored entry.
func (s *Store) PatchLast(fn func(Message) Message) (Message, error) {
	next, err := s.patchLast(fn)
	if err != nil {
		return Message{}, err
	}
	s.notifier.Notify()
	return next.Clone(), nil
}

func (s *Store) patchLast(fn func(Message) Message) (Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.messages) == 0 {
		return Message{}, &EmptyLogError{}
	}

	last := len(s.messages) - 1
	old := s.messages[last]
	next := fn(old.Clone()).Clone()
	next.ID, next.Role, next.Timestamp = old.ID, old.Role, old.Timestamp
	next.normalize()

	if err := next.validateTasks(); err != nil {
		return Message{}, fmt.Errorf("patch message: %w", err)
	}
	if err := checkProgression(old.Tasks, next.Tasks); err != nil {
		return Message{}, fmt.Errorf("patch message: %w", err)
	}

	s.messages[last] = next
	return next, nil
}

// Reset replaces the whole log with seed.
func (s *Store) Reset(seed Message) Message {
	seed = seed.Clone()
	seed.normalize()
	if seed.ID == "" {
		seed.ID = newID()
	}
	if seed.Timestamp.IsZero() {
		seed.Timestamp = s.now()
	}

	s.mu.Lock()
	s.messages = []Message{seed}
	s.mu.Unlock()

	s.notifier.Notify()
	return seed.Clone()
}

// Messages returns a copy of the log in order.
func (s *Store) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Message, len(s.messages))
	for i, m := range s.messages {
		out[i] = m.Clone()
	}
	return out
}

// Last returns the tail entry, if any.
func (s *Store) Last() (Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.messages) == 0 {
		return Message{}, false
	}
	return s.messages[len(s.messages)-1].Clone(), true
}

// Len returns the number of messages in the log.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// checkProgression rejects patches that move a done task backwards.
func checkProgression(old, next []Task) error {
	prev := make(map[string]Task, len(old))
	for _, t := range old {
		prev[t.ID] = t
	}
	for _, t := range next {
		p, ok := prev[t.ID]
		if !ok || p.Status != TaskDone {
			continue
		}
		if t.Status != TaskDone || t.Progress < p.Progress {
			return fmt.Errorf("%w: %s was done, now %s at %d", ErrTaskRegression, t.ID, t.Status, t.Progress)
		}
	}
	return nil
}

// newID returns a time-ordered identifier.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
