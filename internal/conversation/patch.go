package conversation

import "slices"

// Patch describes a replacement of fields on the most recent message.
// Nil or empty fields are left untouched; ClearActions removes the action
// buttons after ActionButtons would have been applied.
type Patch struct {
	Content       *string        `yaml:"content,omitempty"`
	IsError       *bool          `yaml:"is_error,omitempty"`
	Tasks         []Task         `yaml:"tasks,omitempty"`
	AudienceCard  *AudienceCard  `yaml:"audience_card,omitempty"`
	CopyCards     []CopyCard     `yaml:"copy_cards,omitempty"`
	ConfirmCards  []ConfirmCard  `yaml:"confirm_cards,omitempty"`
	ActionButtons []ActionButton `yaml:"action_buttons,omitempty"`
	ClearActions  bool           `yaml:"clear_actions,omitempty"`
}

// Apply returns m with the patch applied. m itself is not modified.
func (p Patch) Apply(m Message) Message {
	out := m.Clone()
	if p.Content != nil {
		out.Content = *p.Content
	}
	if p.IsError != nil {
		out.IsError = *p.IsError
	}
	if p.Tasks != nil {
		out.Tasks = slices.Clone(p.Tasks)
	}
	if p.AudienceCard != nil {
		card := cloneAudience(*p.AudienceCard)
		out.AudienceCard = &card
	}
	if p.CopyCards != nil {
		out.CopyCards = slices.Clone(p.CopyCards)
	}
	if p.ConfirmCards != nil {
		out.ConfirmCards = slices.Clone(p.ConfirmCards)
	}
	if p.ActionButtons != nil {
		out.ActionButtons = slices.Clone(p.ActionButtons)
	}
	if p.ClearActions {
		out.ActionButtons = nil
	}
	return out
}

// WithContent is a convenience for building content patches in code.
func WithContent(s string) *string {
	return &s
}

// Clone returns a deep copy of p.
func (p Patch) Clone() Patch {
	out := p
	if p.Content != nil {
		out.Content = WithContent(*p.Content)
	}
	if p.IsError != nil {
		v := *p.IsError
		out.IsError = &v
	}
	out.Tasks = slices.Clone(p.Tasks)
	if p.AudienceCard != nil {
		card := cloneAudience(*p.AudienceCard)
		out.AudienceCard = &card
	}
	out.CopyCards = slices.Clone(p.CopyCards)
	out.ConfirmCards = slices.Clone(p.ConfirmCards)
	out.ActionButtons = slices.Clone(p.ActionButtons)
	return out
}
