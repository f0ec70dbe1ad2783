package tui

import (
	"fmt"
	"io"

	"github.com/berth-dev/playback/internal/playback"
)

// FallbackRunner handles non-TTY execution by guiding users to CLI commands.
type FallbackRunner struct {
	scenarios []playback.Scenario
}

// NewFallbackRunner creates a new FallbackRunner.
func NewFallbackRunner(scenarios []playback.Scenario) *FallbackRunner {
	return &FallbackRunner{scenarios: scenarios}
}

// Run prints the available scenarios and how to play one headlessly.
func (f *FallbackRunner) Run(w io.Writer) error {
	fmt.Fprintln(w, "Non-TTY environment detected.")
	fmt.Fprintln(w, "Available scenarios:")
	for _, sc := range f.scenarios {
		fmt.Fprintf(w, "  %-4s %s\n", sc.ID, sc.Title)
	}
	if len(f.scenarios) > 0 {
		fmt.Fprintf(w, "Use 'playback play %s' to play one without the interface.\n", f.scenarios[0].ID)
	}
	return nil
}
