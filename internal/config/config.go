// Package config handles reading and writing .playback/config.yaml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/berth-dev/playback/internal/log"
	"github.com/berth-dev/playback/internal/playback"
	"github.com/berth-dev/playback/internal/router"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Config is the top-level structure for .playback/config.yaml.
type Config struct {
	Version  int            `yaml:"version"`
	Playback PlaybackConfig `yaml:"playback"`
	Router   RouterConfig   `yaml:"router"`
	Log      LogConfig      `yaml:"log"`
	UI       UIConfig       `yaml:"ui"`
}

// PlaybackConfig controls scenario pacing.
type PlaybackConfig struct {
	Tick            time.Duration `yaml:"tick" env:"PLAYBACK_TICK"`
	CharDelay       time.Duration `yaml:"char_delay"`
	TypeHold        time.Duration `yaml:"type_hold"`
	UserTrail       time.Duration `yaml:"user_trail"`
	AssistantTyping time.Duration `yaml:"assistant_typing"`
	AssistantTrail  time.Duration `yaml:"assistant_trail"`
	PatchTrail      time.Duration `yaml:"patch_trail"`
	Speed           float64       `yaml:"speed" env:"PLAYBACK_SPEED"` // 2 plays twice as fast
}

// RouterConfig controls the replies to free-form input.
type RouterConfig struct {
	ReplyDelay time.Duration   `yaml:"reply_delay"`
	StageDelay time.Duration   `yaml:"stage_delay"`
	Keywords   router.Keywords `yaml:"keywords"`
}

// LogConfig controls diagnostics and the event journal.
type LogConfig struct {
	Level   string `yaml:"level" env:"PLAYBACK_LOG_LEVEL"` // debug | info | warn | error
	Journal bool   `yaml:"journal" env:"PLAYBACK_JOURNAL"`
	// MaxAgeDays is how long "playback clean" keeps journal events.
	MaxAgeDays int `yaml:"max_age_days"`
}

// UIConfig controls the terminal interface.
type UIConfig struct {
	AltScreen bool `yaml:"alt_screen"`
	// MarkdownStyle is a glamour style name for copy cards. Empty follows
	// the terminal background.
	MarkdownStyle string `yaml:"markdown_style,omitempty"`
}

const configFile = "config.yaml"

// Path returns the config file location for the project directory dir.
func Path(dir string) string {
	return filepath.Join(dir, log.DirName, configFile)
}

// ReadConfig reads .playback/config.yaml from the given project directory.
// Fields missing from the file keep their default values.
// Returns an error if the file is not found or YAML is malformed.
func ReadConfig(dir string) (*Config, error) {
	data, err := os.ReadFile(Path(dir))
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// WriteConfig writes cfg to .playback/config.yaml in the given project directory.
// Creates the .playback/ directory if it does not exist.
func WriteConfig(dir string, cfg *Config) error {
	dirPath := filepath.Join(dir, log.DirName)
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	if err := os.WriteFile(Path(dir), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Load returns the effective configuration for dir: the config file if one
// exists, defaults otherwise, with PLAYBACK_* environment overrides applied.
func Load(dir string) (*Config, error) {
	cfg, err := ReadConfig(dir)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = DefaultConfig()
	} else if err != nil {
		return nil, err
	}

	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfig returns a Config populated with the demo defaults.
func DefaultConfig() *Config {
	p := playback.DefaultPacing()
	return &Config{
		Version: 1,
		Playback: PlaybackConfig{
			Tick:            p.Tick,
			CharDelay:       p.CharDelay,
			TypeHold:        p.TypeHold,
			UserTrail:       p.UserTrail,
			AssistantTyping: p.AssistantTyping,
			AssistantTrail:  p.AssistantTrail,
			PatchTrail:      p.PatchTrail,
			Speed:           1,
		},
		Router: RouterConfig{
			ReplyDelay: router.DefaultReplyDelay,
			StageDelay: router.DefaultStageDelay,
			Keywords:   router.DefaultKeywords(),
		},
		Log: LogConfig{
			Level:      "info",
			Journal:    true,
			MaxAgeDays: 30,
		},
		UI: UIConfig{
			AltScreen: true,
		},
	}
}

// Validate rejects settings the scheduler cannot run with.
func (c *Config) Validate() error {
	p := c.Playback
	if p.Tick <= 0 {
		return fmt.Errorf("%w: playback.tick must be positive, got %s", ErrInvalid, p.Tick)
	}
	if p.Speed <= 0 {
		return fmt.Errorf("%w: playback.speed must be positive, got %v", ErrInvalid, p.Speed)
	}
	if c.Log.MaxAgeDays < 0 {
		return fmt.Errorf("%w: log.max_age_days must not be negative, got %d", ErrInvalid, c.Log.MaxAgeDays)
	}
	durations := map[string]time.Duration{
		"playback.char_delay":       p.CharDelay,
		"playback.type_hold":        p.TypeHold,
		"playback.user_trail":       p.UserTrail,
		"playback.assistant_typing": p.AssistantTyping,
		"playback.assistant_trail":  p.AssistantTrail,
		"playback.patch_trail":      p.PatchTrail,
		"router.reply_delay":        c.Router.ReplyDelay,
		"router.stage_delay":        c.Router.StageDelay,
	}
	for name, d := range durations {
		if d < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %s", ErrInvalid, name, d)
		}
	}
	return nil
}

// Pacing converts the playback section for the scheduler.
func (c *Config) Pacing() playback.Pacing {
	p := c.Playback
	return playback.Pacing{
		Tick:            p.Tick,
		CharDelay:       p.CharDelay,
		TypeHold:        p.TypeHold,
		UserTrail:       p.UserTrail,
		AssistantTyping: p.AssistantTyping,
		AssistantTrail:  p.AssistantTrail,
		PatchTrail:      p.PatchTrail,
	}
}

// Clock returns the real clock scaled by the configured speed.
func (c *Config) Clock() playback.Clock {
	return playback.ScaledClock{Clock: playback.RealClock{}, Speed: c.Playback.Speed}
}

// RouterOptions converts the router section. Clock, logger and journal are
// left for the caller. A zero delay here means no wait.
func (c *Config) RouterOptions() router.Options {
	return router.Options{
		Keywords:   c.Router.Keywords,
		ReplyDelay: routerDelay(c.Router.ReplyDelay),
		StageDelay: routerDelay(c.Router.StageDelay),
		Tick:       c.Playback.Tick,
	}
}

func routerDelay(d time.Duration) time.Duration {
	if d == 0 {
		return router.NoDelay
	}
	return d
}
