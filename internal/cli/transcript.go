package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/berth-dev/playback/internal/assistant"
	"github.com/berth-dev/playback/internal/conversation"
)

// transcript prints the conversation as plain text. Messages are printed
// when they first appear and again, marked, each time a patch changes them.
type transcript struct {
	w       io.Writer
	seen    map[string]string
	profile string
}

func newTranscript(w io.Writer) *transcript {
	return &transcript{w: w, seen: make(map[string]string)}
}

// prime records what is already on screen without printing it.
func (t *transcript) prime(a *assistant.Assistant) {
	for _, m := range a.Messages() {
		t.seen[m.ID] = formatMessage(m)
	}
}

func (t *transcript) update(a *assistant.Assistant) {
	for _, m := range a.Messages() {
		text := formatMessage(m)
		prev, ok := t.seen[m.ID]
		switch {
		case !ok:
			fmt.Fprintln(t.w, text)
		case prev != text:
			fmt.Fprintln(t.w, "~ "+text)
		default:
			continue
		}
		t.seen[m.ID] = text
	}

	subject := a.Signals().ProfileSubject
	if subject != t.profile {
		t.profile = subject
		if subject != "" {
			fmt.Fprintln(t.w, formatProfile(a, subject))
		}
	}
}

func formatMessage(m conversation.Message) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", m.Role, m.Content)
	if m.IsError {
		b.WriteString(" (!)")
	}
	for _, task := range m.Tasks {
		fmt.Fprintf(&b, "\n    %-10s %3d%%  %s", task.Status, task.Progress, task.Name)
	}
	if c := m.AudienceCard; c != nil {
		names := make([]string, len(c.Samples))
		for i, s := range c.Samples {
			names[i] = s.Name
		}
		fmt.Fprintf(&b, "\n    audience %d: %s", c.TotalCount, strings.Join(names, ", "))
	}
	for _, c := range m.CopyCards {
		fmt.Fprintf(&b, "\n    copy [%s] %s", c.Type, c.Content)
	}
	for _, c := range m.ConfirmCards {
		fmt.Fprintf(&b, "\n    confirm [%s] %d", c.Title, c.Count)
		if c.Target != "" {
			fmt.Fprintf(&b, " via %s", c.Target)
		}
	}
	for _, btn := range m.ActionButtons {
		fmt.Fprintf(&b, "\n    > %s (%s)", btn.Label, btn.Action)
	}
	return b.String()
}

func formatProfile(a *assistant.Assistant, subject string) string {
	p, ok := a.Profile(subject)
	if !ok {
		return "[profile] " + subject
	}
	var b strings.Builder
	fmt.Fprintf(&b, "[profile] %s %s [%s]", p.Name, p.City, strings.Join(p.Tags, ", "))
	for _, ev := range p.Timeline {
		fmt.Fprintf(&b, "\n    %s  %s", ev.When, ev.What)
	}
	return b.String()
}

// follow runs fn and prints the conversation as it changes until fn
// returns. Messages present before fn starts are not printed.
func follow(ctx context.Context, a *assistant.Assistant, w io.Writer, fn func(context.Context) error) error {
	changes, unsubscribe := a.Subscribe()
	defer unsubscribe()

	t := newTranscript(w)
	t.prime(a)

	errc := make(chan error, 1)
	go func() { errc <- fn(ctx) }()

	for {
		select {
		case <-changes:
			t.update(a)
		case err := <-errc:
			t.update(a)
			return err
		}
	}
}
