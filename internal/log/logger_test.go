package log

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAppendAndReadAll(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLogger(dir)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	if err := l.Append(LogEvent{Event: EventScenarioStarted, ScenarioID: "s1", Steps: 12}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := l.Append(LogEvent{Event: EventScenarioStopped, ScenarioID: "s1", Step: 4}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	events, err := l.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(events))
	}
	if events[0].Event != EventScenarioStarted || events[0].Steps != 12 {
		t.Errorf("events[0] = %+v", events[0])
	}
	if events[1].Time.IsZero() {
		t.Error("Append should stamp the event time")
	}
}

func TestReadAllMissingFile(t *testing.T) {
	l, err := NewLogger(t.TempDir())
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	events, err := l.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("len(events) = %d, want 0", len(events))
	}
}

func TestReadAllMalformedLine(t *testing.T) {
	dir := t.TempDir()
	l, _ := NewLogger(dir)
	if err := os.WriteFile(filepath.Join(dir, DirName, "log.jsonl"), []byte("{not json}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := l.ReadAll(); err == nil {
		t.Error("ReadAll should fail on a malformed line")
	}
}

func TestNewZapWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "debug.log")
	logger, err := NewZap("debug", path)
	if err != nil {
		t.Fatalf("NewZap: %v", err)
	}
	logger.Debug("hello")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	if len(data) == 0 {
		t.Error("debug log should not be empty")
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Error("OrNop(nil) should return a logger")
	}
}

func TestRewrite(t *testing.T) {
	l, err := NewLogger(t.TempDir())
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	for _, id := range []string{"s1", "s2", "s3"} {
		if err := l.Append(LogEvent{Event: EventScenarioStarted, ScenarioID: id}); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	events, err := l.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if err := l.Rewrite(events[1:]); err != nil {
		t.Fatalf("Rewrite: %v", err)
	}

	got, err := l.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(got) != 2 || got[0].ScenarioID != "s2" || got[1].ScenarioID != "s3" {
		t.Errorf("after Rewrite got %+v", got)
	}
	if _, err := os.Stat(l.Path() + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temporary file left behind: %v", err)
	}

	if err := l.Rewrite(nil); err != nil {
		t.Fatalf("Rewrite(nil): %v", err)
	}
	if got, _ := l.ReadAll(); len(got) != 0 {
		t.Errorf("len(events) = %d after empty Rewrite, want 0", len(got))
	}
}
