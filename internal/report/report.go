// Package report summarises the playback journal: how often each scenario
// ran, how the runs ended and what free-form input was routed where.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/berth-dev/playback/internal/log"
)

// ScenarioStats aggregates the runs of one scenario.
type ScenarioStats struct {
	ID        string
	Started   int
	Completed int
	Stopped   int
	Failed    int
	// Fastest and Slowest consider completed runs only.
	Fastest time.Duration
	Slowest time.Duration
	// LastError is the error of the most recent failed run.
	LastError string
}

// Report holds the aggregated statistics of a journal.
type Report struct {
	Events    int
	Scenarios []ScenarioStats // ordered by id
	Intents   map[string]int
	Confirmed int
	Rejected  int
	Resets    int
	Span      time.Duration
}

// Generate builds a Report from journal events.
func Generate(events []log.LogEvent) *Report {
	r := &Report{
		Events:  len(events),
		Intents: make(map[string]int),
	}

	stats := make(map[string]*ScenarioStats)
	get := func(id string) *ScenarioStats {
		s, ok := stats[id]
		if !ok {
			s = &ScenarioStats{ID: id}
			stats[id] = s
		}
		return s
	}

	for _, e := range events {
		switch e.Event {
		case log.EventScenarioStarted:
			get(e.ScenarioID).Started++
		case log.EventScenarioCompleted:
			s := get(e.ScenarioID)
			s.Completed++
			d := time.Duration(e.DurationMs) * time.Millisecond
			if s.Fastest == 0 || d < s.Fastest {
				s.Fastest = d
			}
			if d > s.Slowest {
				s.Slowest = d
			}
		case log.EventScenarioStopped:
			get(e.ScenarioID).Stopped++
		case log.EventScenarioFailed:
			s := get(e.ScenarioID)
			s.Failed++
			s.LastError = e.Error
		case log.EventIntentRouted:
			r.Intents[e.Intent]++
		case log.EventAudienceConfirmed:
			r.Confirmed++
		case log.EventAudienceRejected:
			r.Rejected++
		case log.EventSessionReset:
			r.Resets++
		}
	}

	for _, s := range stats {
		r.Scenarios = append(r.Scenarios, *s)
	}
	sort.Slice(r.Scenarios, func(i, j int) bool {
		return r.Scenarios[i].ID < r.Scenarios[j].ID
	})
	r.Span = computeSpan(events)
	return r
}

// Format produces a terminal-friendly, human-readable summary string.
func Format(r *Report) string {
	var b strings.Builder

	b.WriteString("========================================\n")
	b.WriteString("  Playback Report\n")
	b.WriteString("========================================\n")
	b.WriteString("\n")

	fmt.Fprintf(&b, "Events:      %d\n", r.Events)
	if r.Span > 0 {
		fmt.Fprintf(&b, "Span:        %s\n", formatDuration(r.Span))
	}
	b.WriteString("\n")

	if len(r.Scenarios) > 0 {
		b.WriteString("Scenarios:\n")
		for _, s := range r.Scenarios {
			fmt.Fprintf(&b, "  %-4s started %d, completed %d, stopped %d, failed %d\n",
				s.ID, s.Started, s.Completed, s.Stopped, s.Failed)
			if s.Completed > 0 {
				fmt.Fprintf(&b, "       run time %s to %s\n", formatDuration(s.Fastest), formatDuration(s.Slowest))
			}
			if s.LastError != "" {
				fmt.Fprintf(&b, "       last error: %s\n", s.LastError)
			}
		}
		b.WriteString("\n")
	}

	if len(r.Intents) > 0 {
		names := make([]string, 0, len(r.Intents))
		for name := range r.Intents {
			names = append(names, name)
		}
		sort.Strings(names)

		b.WriteString("Replies:\n")
		for _, name := range names {
			fmt.Fprintf(&b, "  %-16s %d\n", name, r.Intents[name])
		}
		fmt.Fprintf(&b, "  confirmed        %d\n", r.Confirmed)
		fmt.Fprintf(&b, "  rejected         %d\n", r.Rejected)
		b.WriteString("\n")
	}

	if r.Resets > 0 {
		fmt.Fprintf(&b, "Sessions:    %d reset(s)\n", r.Resets)
	}

	b.WriteString("========================================\n")

	return b.String()
}

// computeSpan is the time between the first and the last event.
func computeSpan(events []log.LogEvent) time.Duration {
	var start, end time.Time
	for _, e := range events {
		if e.Time.IsZero() {
			continue
		}
		if start.IsZero() || e.Time.Before(start) {
			start = e.Time
		}
		if e.Time.After(end) {
			end = e.Time
		}
	}
	if start.IsZero() {
		return 0
	}
	return end.Sub(start)
}

// formatDuration produces a human-readable duration string such as "5m 32s"
// or "1h 12m 5s". Sub-second durations are shown as "< 1s".
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "< 1s"
	}

	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60

	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
