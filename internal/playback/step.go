package playback

import (
	"errors"
	"fmt"
	"time"

	"github.com/berth-dev/playback/internal/conversation"
)

// StepKind discriminates the Step variants.
type StepKind string

const (
	StepType        StepKind = "type"
	StepUser        StepKind = "user"
	StepAssistant   StepKind = "assistant"
	StepPatch       StepKind = "patch"
	StepShowProfile StepKind = "show_profile"
	StepHideProfile StepKind = "hide_profile"
	StepWait        StepKind = "wait"
)

// ErrInvalidStep is returned for a step whose payload does not fit its kind.
var ErrInvalidStep = errors.New("invalid step")

// Step is one instruction of a Scenario. Only the fields belonging to Kind
// are meaningful:
//
//	type, user      Text
//	assistant       Message
//	patch           Patch
//	show_profile    Subject
//	wait            Duration
type Step struct {
	Kind     StepKind              `yaml:"kind"`
	Text     string                `yaml:"text,omitempty"`
	Message  *conversation.Message `yaml:"message,omitempty"`
	Patch    *conversation.Patch   `yaml:"patch,omitempty"`
	Subject  string                `yaml:"subject,omitempty"`
	Duration time.Duration         `yaml:"duration,omitempty"`
}

// TypeIntoComposer simulates the operator typing text.
func TypeIntoComposer(text string) Step { return Step{Kind: StepType, Text: text} }

// EmitUserMessage appends an operator message.
func EmitUserMessage(text string) Step { return Step{Kind: StepUser, Text: text} }

// EmitAssistantMessage appends an assistant message after a typing pause.
func EmitAssistantMessage(msg conversation.Message) Step {
	return Step{Kind: StepAssistant, Message: &msg}
}

// PatchLastAssistantMessage rewrites the tail message.
func PatchLastAssistantMessage(p conversation.Patch) Step {
	return Step{Kind: StepPatch, Patch: &p}
}

// ShowProfileOverlay opens the customer profile overlay.
func ShowProfileOverlay(subject string) Step { return Step{Kind: StepShowProfile, Subject: subject} }

// HideProfileOverlay closes the customer profile overlay.
func HideProfileOverlay() Step { return Step{Kind: StepHideProfile} }

// WaitFor pauses the script.
func WaitFor(d time.Duration) Step { return Step{Kind: StepWait, Duration: d} }

// Validate checks that the step carries the payload its kind needs.
func (s Step) Validate() error {
	switch s.Kind {
	case StepType, StepUser:
		if s.Text == "" {
			return fmt.Errorf("%w: %s needs text", ErrInvalidStep, s.Kind)
		}
	case StepAssistant:
		if s.Message == nil {
			return fmt.Errorf("%w: assistant needs a message", ErrInvalidStep)
		}
	case StepPatch:
		if s.Patch == nil {
			return fmt.Errorf("%w: patch needs a patch", ErrInvalidStep)
		}
	case StepShowProfile:
		if s.Subject == "" {
			return fmt.Errorf("%w: show_profile needs a subject", ErrInvalidStep)
		}
	case StepHideProfile:
	case StepWait:
		if s.Duration < 0 {
			return fmt.Errorf("%w: negative wait %s", ErrInvalidStep, s.Duration)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidStep, s.Kind)
	}
	return nil
}

// Scenario is a fixed, named script.
type Scenario struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Validate checks every step.
func (sc Scenario) Validate() error {
	if sc.ID == "" {
		return fmt.Errorf("%w: scenario without id", ErrInvalidStep)
	}
	for i, st := range sc.Steps {
		if err := st.Validate(); err != nil {
			return fmt.Errorf("scenario %s step %d: %w", sc.ID, i, err)
		}
	}
	return nil
}
