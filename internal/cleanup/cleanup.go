// Package cleanup implements pruning of old playback journal events.
package cleanup

import (
	"fmt"
	"time"

	"github.com/berth-dev/playback/internal/log"
)

// PruneByAge removes journal events older than maxAgeDays, measured from now.
// If dryRun is true, the journal is left untouched; the function only
// returns the events that would be removed. Returns the pruned events.
func PruneByAge(journal *log.Logger, maxAgeDays int, now time.Time, dryRun bool) ([]log.LogEvent, error) {
	events, err := journal.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading journal: %w", err)
	}

	cutoff := now.AddDate(0, 0, -maxAgeDays)
	var kept, pruned []log.LogEvent
	for _, ev := range events {
		if ev.Time.Before(cutoff) {
			pruned = append(pruned, ev)
		} else {
			kept = append(kept, ev)
		}
	}

	return pruned, commit(journal, kept, pruned, dryRun)
}

// PruneKeepRecent removes all journal events except the most recent keep.
// If dryRun is true, the journal is left untouched. Returns the pruned events.
func PruneKeepRecent(journal *log.Logger, keep int, dryRun bool) ([]log.LogEvent, error) {
	events, err := journal.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading journal: %w", err)
	}

	// The journal is append-only, so file order is chronological.
	if len(events) <= keep {
		return nil, nil
	}
	cut := len(events) - keep
	return events[:cut], commit(journal, events[cut:], events[:cut], dryRun)
}

func commit(journal *log.Logger, kept, pruned []log.LogEvent, dryRun bool) error {
	if dryRun || len(pruned) == 0 {
		return nil
	}
	if err := journal.Rewrite(kept); err != nil {
		return fmt.Errorf("rewriting journal: %w", err)
	}
	return nil
}
