package cleanup

import (
	"testing"
	"time"

	"github.com/berth-dev/playback/internal/log"
)

// seedJournal creates a journal holding one scenario_started event per
// timestamp, in order.
func seedJournal(t *testing.T, times ...time.Time) *log.Logger {
	t.Helper()
	journal, err := log.NewLogger(t.TempDir())
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	for i, ts := range times {
		ev := log.LogEvent{Time: ts, Event: log.EventScenarioStarted, ScenarioID: string(rune('a' + i))}
		if err := journal.Append(ev); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	return journal
}

func readAll(t *testing.T, journal *log.Logger) []log.LogEvent {
	t.Helper()
	events, err := journal.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	return events
}

func TestPruneByAge_RemovesOldEvents(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	journal := seedJournal(t, now.AddDate(0, 0, -60), now.AddDate(0, 0, -5))

	pruned, err := PruneByAge(journal, 30, now, false)
	if err != nil {
		t.Fatalf("PruneByAge failed: %v", err)
	}

	if len(pruned) != 1 || pruned[0].ScenarioID != "a" {
		t.Errorf("expected pruned=[a], got %+v", pruned)
	}

	events := readAll(t, journal)
	if len(events) != 1 || events[0].ScenarioID != "b" {
		t.Errorf("expected journal=[b], got %+v", events)
	}
}

func TestPruneByAge_DryRun(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	journal := seedJournal(t, now.AddDate(0, 0, -60))

	pruned, err := PruneByAge(journal, 30, now, true)
	if err != nil {
		t.Fatalf("PruneByAge dry-run failed: %v", err)
	}
	if len(pruned) != 1 {
		t.Errorf("expected 1 pruned event, got %d", len(pruned))
	}

	if got := len(readAll(t, journal)); got != 1 {
		t.Errorf("dry run should keep the journal, got %d events", got)
	}
}

func TestPruneByAge_NothingToPrune(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	journal := seedJournal(t, now.Add(-time.Hour))

	pruned, err := PruneByAge(journal, 30, now, false)
	if err != nil {
		t.Fatalf("PruneByAge failed: %v", err)
	}
	if len(pruned) != 0 {
		t.Errorf("expected nothing pruned, got %+v", pruned)
	}
}

func TestPruneByAge_MissingJournal(t *testing.T) {
	journal, err := log.NewLogger(t.TempDir())
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	pruned, err := PruneByAge(journal, 30, time.Now(), false)
	if err != nil {
		t.Fatalf("PruneByAge on a missing journal failed: %v", err)
	}
	if len(pruned) != 0 {
		t.Errorf("expected nothing pruned, got %+v", pruned)
	}
}

func TestPruneKeepRecent(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	journal := seedJournal(t, base, base.Add(time.Minute), base.Add(2*time.Minute), base.Add(3*time.Minute))

	pruned, err := PruneKeepRecent(journal, 2, false)
	if err != nil {
		t.Fatalf("PruneKeepRecent failed: %v", err)
	}

	if len(pruned) != 2 || pruned[0].ScenarioID != "a" || pruned[1].ScenarioID != "b" {
		t.Errorf("expected pruned=[a b], got %+v", pruned)
	}

	events := readAll(t, journal)
	if len(events) != 2 || events[0].ScenarioID != "c" || events[1].ScenarioID != "d" {
		t.Errorf("expected journal=[c d], got %+v", events)
	}
}

func TestPruneKeepRecent_FewerThanKeep(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	journal := seedJournal(t, base)

	pruned, err := PruneKeepRecent(journal, 5, false)
	if err != nil {
		t.Fatalf("PruneKeepRecent failed: %v", err)
	}
	if len(pruned) != 0 {
		t.Errorf("expected nothing pruned, got %+v", pruned)
	}
}

func TestPruneKeepRecent_DryRun(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	journal := seedJournal(t, base, base.Add(time.Minute), base.Add(2*time.Minute))

	pruned, err := PruneKeepRecent(journal, 1, true)
	if err != nil {
		t.Fatalf("PruneKeepRecent dry-run failed: %v", err)
	}
	if len(pruned) != 2 {
		t.Errorf("expected 2 pruned events, got %d", len(pruned))
	}
	if got := len(readAll(t, journal)); got != 3 {
		t.Errorf("dry run should keep the journal, got %d events", got)
	}
}
