// Package testutil provides test helper utilities for playback tests.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/berth-dev/playback/internal/playback"
)

// TempProject creates a temporary directory with the given files and returns its path.
// Files is a map of relative path -> content. Directories are created as needed.
// The directory is automatically cleaned up when the test finishes.
func TempProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()

	for relPath, content := range files {
		absPath := filepath.Join(dir, relPath)
		if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
			t.Fatalf("creating directory for %s: %v", relPath, err)
		}
		if err := os.WriteFile(absPath, []byte(content), 0644); err != nil {
			t.Fatalf("writing %s: %v", relPath, err)
		}
	}

	return dir
}

// ConfigProject returns files for a project holding the given config.yaml.
func ConfigProject(configYAML string) map[string]string {
	return map[string]string{
		".playback/config.yaml": configYAML,
	}
}

// InstantClock is a playback.Clock that never sleeps. Every call counts as
// one tick; OnTick, if set, runs first on the sleeping goroutine.
type InstantClock struct {
	OnTick func(n int)

	mu    sync.Mutex
	ticks int
	slept time.Duration
}

var _ playback.Clock = (*InstantClock)(nil)

// Sleep implements playback.Clock.
func (c *InstantClock) Sleep(ctx context.Context, d time.Duration) error {
	c.mu.Lock()
	c.ticks++
	c.slept += d
	n := c.ticks
	c.mu.Unlock()

	if c.OnTick != nil {
		c.OnTick(n)
	}
	return ctx.Err()
}

// Ticks returns how many times Sleep has been called.
func (c *InstantClock) Ticks() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ticks
}

// Slept returns the simulated time passed so far.
func (c *InstantClock) Slept() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.slept
}
