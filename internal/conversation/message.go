// Package conversation holds the conversation log shown to the operator and
// the presentation signals that accompany it.
package conversation

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// TaskStatus is the lifecycle state of a pipeline task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskProcessing TaskStatus = "processing"
	TaskDone       TaskStatus = "done"
	TaskError      TaskStatus = "error"
)

// MaxAudienceSamples caps the number of samples an audience card carries.
const MaxAudienceSamples = 3

// ErrInvalidTask is returned when a task's status and progress disagree.
var ErrInvalidTask = errors.New("invalid task")

// Task is one step of a pipeline shown inside a message.
type Task struct {
	ID       string     `yaml:"id" json:"id"`
	Name     string     `yaml:"name" json:"name"`
	Status   TaskStatus `yaml:"status" json:"status"`
	Progress int        `yaml:"progress" json:"progress"`
}

// Validate checks the progress invariants: a processing task is never at
// 100, a done task always is.
func (t Task) Validate() error {
	if t.Progress < 0 || t.Progress > 100 {
		return fmt.Errorf("%w: %s progress %d out of range", ErrInvalidTask, t.ID, t.Progress)
	}
	switch t.Status {
	case TaskPending, TaskError:
	case TaskProcessing:
		if t.Progress == 100 {
			return fmt.Errorf("%w: %s is processing at 100", ErrInvalidTask, t.ID)
		}
	case TaskDone:
		if t.Progress != 100 {
			return fmt.Errorf("%w: %s is done at %d", ErrInvalidTask, t.ID, t.Progress)
		}
	default:
		return fmt.Errorf("%w: %s has unknown status %q", ErrInvalidTask, t.ID, t.Status)
	}
	return nil
}

// PendingTask returns a task that has not started.
func PendingTask(id, name string) Task {
	return Task{ID: id, Name: name, Status: TaskPending}
}

// ProcessingTask returns a running task. Progress is clamped to [0,99].
func ProcessingTask(id, name string, progress int) Task {
	progress = max(0, min(progress, 99))
	return Task{ID: id, Name: name, Status: TaskProcessing, Progress: progress}
}

// DoneTask returns a finished task.
func DoneTask(id, name string) Task {
	return Task{ID: id, Name: name, Status: TaskDone, Progress: 100}
}

// AudienceSample is one example member of a targeted audience.
type AudienceSample struct {
	ID        string   `yaml:"id" json:"id"`
	Name      string   `yaml:"name" json:"name"`
	AvatarRef string   `yaml:"avatar" json:"avatar"`
	Tags      []string `yaml:"tags" json:"tags"`
	Reason    string   `yaml:"reason" json:"reason"`
}

// AudienceCard is the result of a targeting query.
type AudienceCard struct {
	TotalCount int              `yaml:"total_count" json:"total_count"`
	Samples    []AudienceSample `yaml:"samples" json:"samples"`
}

// CopyCard is a drafted piece of outbound copy.
type CopyCard struct {
	Type    string `yaml:"type" json:"type"`
	Content string `yaml:"content" json:"content"`
}

// ConfirmCard summarises a send that awaits confirmation.
type ConfirmCard struct {
	Title           string `yaml:"title" json:"title"`
	Count           int    `yaml:"count" json:"count"`
	ContentSnapshot string `yaml:"content_snapshot" json:"content_snapshot"`
	Target          string `yaml:"target,omitempty" json:"target,omitempty"`
}

// ActionButton is a button attached to a message.
type ActionButton struct {
	Label   string `yaml:"label" json:"label"`
	Action  string `yaml:"action" json:"action"`
	Primary bool   `yaml:"primary,omitempty" json:"primary,omitempty"`
}

// Message is an entry in the conversation log.
type Message struct {
	ID            string         `yaml:"id,omitempty" json:"id"`
	Role          Role           `yaml:"role,omitempty" json:"role"`
	Content       string         `yaml:"content,omitempty" json:"content"`
	Timestamp     time.Time      `yaml:"timestamp,omitempty" json:"timestamp"`
	IsError       bool           `yaml:"is_error,omitempty" json:"is_error,omitempty"`
	Tasks         []Task         `yaml:"tasks,omitempty" json:"tasks,omitempty"`
	AudienceCard  *AudienceCard  `yaml:"audience_card,omitempty" json:"audience_card,omitempty"`
	CopyCards     []CopyCard     `yaml:"copy_cards,omitempty" json:"copy_cards,omitempty"`
	ConfirmCards  []ConfirmCard  `yaml:"confirm_cards,omitempty" json:"confirm_cards,omitempty"`
	ActionButtons []ActionButton `yaml:"action_buttons,omitempty" json:"action_buttons,omitempty"`
}

// Clone returns a copy of m that shares no slices or pointers with it.
func (m Message) Clone() Message {
	out := m
	out.Tasks = slices.Clone(m.Tasks)
	out.CopyCards = slices.Clone(m.CopyCards)
	out.ConfirmCards = slices.Clone(m.ConfirmCards)
	out.ActionButtons = slices.Clone(m.ActionButtons)
	if m.AudienceCard != nil {
		card := cloneAudience(*m.AudienceCard)
		out.AudienceCard = &card
	}
	return out
}

func cloneAudience(c AudienceCard) AudienceCard {
	out := AudienceCard{TotalCount: c.TotalCount, Samples: make([]AudienceSample, 0, len(c.Samples))}
	for _, s := range c.Samples {
		s.Tags = slices.Clone(s.Tags)
		out.Samples = append(out.Samples, s)
	}
	return out
}

// normalize drops duplicate sample tags and trims the audience sample list.
func (m *Message) normalize() {
	if m.AudienceCard == nil {
		return
	}
	if len(m.AudienceCard.Samples) > MaxAudienceSamples {
		m.AudienceCard.Samples = m.AudienceCard.Samples[:MaxAudienceSamples]
	}
	for i := range m.AudienceCard.Samples {
		m.AudienceCard.Samples[i].Tags = uniqueTags(m.AudienceCard.Samples[i].Tags)
	}
}

func uniqueTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := tags[:0]
	for _, t := range tags {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func (m Message) validateTasks() error {
	for _, t := range m.Tasks {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// UserMessage builds an unsaved operator message.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage builds an unsaved assistant message.
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}
