package config

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/berth-dev/playback/internal/playback"
	"github.com/berth-dev/playback/internal/router"
	"github.com/berth-dev/playback/internal/testutil"
)

func TestConfigYAMLRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Playback.Speed = 2.5
	cfg.Router.StageDelay = 1500 * time.Millisecond
	cfg.Router.Keywords.Push = []string{"推送", "群发"}

	if err := WriteConfig(tmpDir, cfg); err != nil {
		t.Fatalf("WriteConfig failed: %v", err)
	}

	loaded, err := ReadConfig(tmpDir)
	if err != nil {
		t.Fatalf("ReadConfig failed: %v", err)
	}

	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultConfigMatchesPacing(t *testing.T) {
	cfg := DefaultConfig()
	if diff := cmp.Diff(playback.DefaultPacing(), cfg.Pacing()); diff != "" {
		t.Errorf("Pacing() mismatch (-want +got):\n%s", diff)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestPartialConfigKeepsDefaults(t *testing.T) {
	partial := `version: 1
playback:
  speed: 4
log:
  level: debug
`
	tmpDir := testutil.TempProject(t, testutil.ConfigProject(partial))

	cfg, err := ReadConfig(tmpDir)
	if err != nil {
		t.Fatalf("ReadConfig failed: %v", err)
	}
	if cfg.Playback.Speed != 4 {
		t.Errorf("Speed: got %v, want 4", cfg.Playback.Speed)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Level: got %q, want debug", cfg.Log.Level)
	}
	if cfg.Playback.Tick != playback.Tick {
		t.Errorf("Tick: got %v, want %v", cfg.Playback.Tick, playback.Tick)
	}
	if len(cfg.Router.Keywords.Audience) == 0 {
		t.Error("router keywords lost their defaults")
	}
}

func TestReadConfigMalformed(t *testing.T) {
	tmpDir := testutil.TempProject(t, testutil.ConfigProject("playback: [oops"))
	if _, err := ReadConfig(tmpDir); err == nil {
		t.Error("ReadConfig() expected error for malformed yaml")
	}
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Playback.Speed != 1 {
		t.Errorf("Speed: got %v, want 1", cfg.Playback.Speed)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PLAYBACK_SPEED", "3")
	t.Setenv("PLAYBACK_TICK", "50ms")
	t.Setenv("PLAYBACK_LOG_LEVEL", "warn")
	t.Setenv("PLAYBACK_JOURNAL", "false")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Playback.Speed != 3 {
		t.Errorf("Speed: got %v, want 3", cfg.Playback.Speed)
	}
	if cfg.Playback.Tick != 50*time.Millisecond {
		t.Errorf("Tick: got %v, want 50ms", cfg.Playback.Tick)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Level: got %q, want warn", cfg.Log.Level)
	}
	if cfg.Log.Journal {
		t.Error("Journal: got true, want false")
	}
}

func TestLoadRejectsBadEnv(t *testing.T) {
	t.Setenv("PLAYBACK_SPEED", "fast")
	if _, err := Load(t.TempDir()); err == nil {
		t.Error("Load() expected error for unparsable speed")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero tick", func(c *Config) { c.Playback.Tick = 0 }},
		{"zero speed", func(c *Config) { c.Playback.Speed = 0 }},
		{"negative speed", func(c *Config) { c.Playback.Speed = -1 }},
		{"negative hold", func(c *Config) { c.Playback.TypeHold = -time.Second }},
		{"negative stage delay", func(c *Config) { c.Router.StageDelay = -time.Second }},
		{"negative max age", func(c *Config) { c.Log.MaxAgeDays = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestRouterOptions(t *testing.T) {
	cfg := DefaultConfig()
	opts := cfg.RouterOptions()
	if opts.StageDelay != 2*time.Second {
		t.Errorf("StageDelay: got %v, want 2s", opts.StageDelay)
	}
	if opts.Tick != cfg.Playback.Tick {
		t.Errorf("Tick: got %v, want %v", opts.Tick, cfg.Playback.Tick)
	}

	cfg.Router.ReplyDelay = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() with zero reply delay: %v", err)
	}
	if got := cfg.RouterOptions().ReplyDelay; got != router.NoDelay {
		t.Errorf("zero ReplyDelay: got %v, want router.NoDelay", got)
	}
}
