// Package config loads application configuration from a YAML file with
// environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds everything tunable about a review session.
type Config struct {
	Editor      string       `yaml:"editor"`
	Diff        DiffConfig   `yaml:"diff"`
	Keybindings Keybindings  `yaml:"keybindings"`
	Review      ReviewConfig `yaml:"review"`
	Cache       CacheConfig  `yaml:"cache"`
	Log         LogConfig    `yaml:"log"`
}

// DiffConfig controls how the diff pane renders.
type DiffConfig struct {
	Renderer    string `yaml:"renderer"`
	SideBySide  bool   `yaml:"side_by_side"`
	LineNumbers bool   `yaml:"line_numbers"`
}

// Keybindings are the configurable verdict shortcuts. Navigation keys are
// fixed.
type Keybindings struct {
	Approve        string `yaml:"approve"`
	RequestChanges string `yaml:"request_changes"`
	Comment        string `yaml:"comment"`
}

// ReviewConfig controls submission behavior.
type ReviewConfig struct {
	RequireFeedback bool `yaml:"require_feedback"`
}

// CacheConfig controls the snapshot database.
type CacheConfig struct {
	Dir    string   `yaml:"dir"`
	MaxAge Duration `yaml:"max_age"`
}

// LogConfig controls the debug log. An empty file disables logging; the
// terminal belongs to the UI, so there is no stderr handler.
type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

// Duration wraps time.Duration so YAML values like "168h" parse.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Diff: DiffConfig{
			Renderer:    "builtin",
			LineNumbers: true,
		},
		Keybindings: Keybindings{
			Approve:        "a",
			RequestChanges: "r",
			Comment:        "c",
		},
		Cache: CacheConfig{
			MaxAge: Duration(168 * time.Hour),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the config file at path (the default location when empty) and
// applies environment overrides. A missing file yields the defaults; a
// malformed one is fatal. Unknown keys are ignored so a config written for
// a newer version still loads.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// Defaults apply.
	default:
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	applyEnv(cfg)

	// A file may blank out a binding; fall back rather than leaving a
	// verdict unreachable.
	def := Default()
	if cfg.Keybindings.Approve == "" {
		cfg.Keybindings.Approve = def.Keybindings.Approve
	}
	if cfg.Keybindings.RequestChanges == "" {
		cfg.Keybindings.RequestChanges = def.Keybindings.RequestChanges
	}
	if cfg.Keybindings.Comment == "" {
		cfg.Keybindings.Comment = def.Keybindings.Comment
	}

	if err := cfg.Keybindings.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// applyEnv layers PRDECK_* environment overrides on top of the file.
func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv("PRDECK_EDITOR"); ok {
		cfg.Editor = v
	}
	if v, ok := os.LookupEnv("PRDECK_DIFF_RENDERER"); ok {
		cfg.Diff.Renderer = v
	}
	if v, ok := os.LookupEnv("PRDECK_CACHE_DIR"); ok {
		cfg.Cache.Dir = v
	}
	if v, ok := os.LookupEnv("PRDECK_LOG_FILE"); ok {
		cfg.Log.File = v
	}
	if v, ok := os.LookupEnv("PRDECK_LOG_LEVEL"); ok {
		cfg.Log.Level = v
	}
}

func (k Keybindings) validate() error {
	seen := make(map[string]string, 3)
	for _, b := range []struct{ name, key string }{
		{"approve", k.Approve},
		{"request_changes", k.RequestChanges},
		{"comment", k.Comment},
	} {
		if other, dup := seen[b.key]; dup {
			return fmt.Errorf("keybindings %s and %s both use %q", other, b.name, b.key)
		}
		seen[b.key] = b.name
	}
	return nil
}

// DefaultPath is the config location under the user config dir.
func DefaultPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "prdeck", "config.yaml")
}

// DBPath returns the snapshot database location, defaulting to the user
// cache dir.
func (c *Config) DBPath() (string, error) {
	dir := c.Cache.Dir
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return "", fmt.Errorf("resolving cache dir: %w", err)
		}
		dir = filepath.Join(base, "prdeck")
	}
	return filepath.Join(dir, "snapshots.db"), nil
}

// defaultYAML is what "prdeck config init" writes: every key spelled out
// with its default so the file can be edited in place.
const defaultYAML = `# prdeck configuration. Every key is optional; the values below are the
# defaults.

# Editor for comment composition. Empty means $VISUAL, then $EDITOR, then vi.
editor: ""

diff:
  # "builtin" or an installed structure-preserving tool such as "delta".
  renderer: builtin
  side_by_side: false
  line_numbers: true

keybindings:
  approve: a
  request_changes: r
  comment: c

review:
  # Require at least one comment or a body before submitting
  # request-changes or comment-only reviews.
  require_feedback: false

cache:
  # Snapshot database directory. Empty means the user cache dir.
  dir: ""
  max_age: 168h

log:
  # Leave file empty to disable logging. Levels: debug, info, warn, error.
  file: ""
  level: info
`

// WriteDefault writes the annotated default config to path (the default
// location when empty), creating parent directories. It refuses to
// overwrite an existing file and returns the path written.
func WriteDefault(path string) (string, error) {
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return "", errors.New("cannot resolve user config dir")
	}

	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s already exists", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultYAML), 0o644); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}

	return path, nil
}
