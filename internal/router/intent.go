// Package router answers free-form operator input with canned staged replies
// chosen by keyword matching.
package router

import "strings"

// Intent is the classification of an operator message.
type Intent string

const (
	IntentAudience       Intent = "audience"
	IntentMissingAccount Intent = "missing_account"
	IntentAcknowledge    Intent = "acknowledge"
)

// Keywords drive Classify. Matching is plain substring containment.
type Keywords struct {
	Audience []string `yaml:"audience"`
	Push     []string `yaml:"push"`
	Account  []string `yaml:"account"`
}

// DefaultKeywords returns the built-in keyword sets.
func DefaultKeywords() Keywords {
	return Keywords{
		Audience: []string{"圈选", "人群"},
		Push:     []string{"推送"},
		Account:  []string{"账号"},
	}
}

// withDefaults fills every empty set from DefaultKeywords.
func (k Keywords) withDefaults() Keywords {
	def := DefaultKeywords()
	if len(k.Audience) == 0 {
		k.Audience = def.Audience
	}
	if len(k.Push) == 0 {
		k.Push = def.Push
	}
	if len(k.Account) == 0 {
		k.Account = def.Account
	}
	return k
}

// Classify picks the first matching intent: an audience request, then a
// push request that names no account, then a plain acknowledgement.
func Classify(text string, kw Keywords) Intent {
	switch {
	case containsAny(text, kw.Audience):
		return IntentAudience
	case containsAny(text, kw.Push) && !containsAny(text, kw.Account):
		return IntentMissingAccount
	default:
		return IntentAcknowledge
	}
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if w != "" && strings.Contains(text, w) {
			return true
		}
	}
	return false
}
