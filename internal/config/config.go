package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	log "github.com/sirupsen/logrus"
	"go.yaml.in/yaml/v3"

	"github.com/twiced-technology-gmbh/tasklanes/internal/clierr"
	"github.com/twiced-technology-gmbh/tasklanes/internal/storage"
	"github.com/twiced-technology-gmbh/tasklanes/internal/task"
)

const fileMode = 0o600

// Sentinel errors.
var (
	ErrNotFound = errors.New("no task board found (run 'tasklanes init' to create one)")
	ErrInvalid  = errors.New("invalid config")
)

// Config represents the board configuration.
type Config struct {
	Version  int            `yaml:"version"`
	Board    BoardConfig    `yaml:"board"`
	Storage  StorageConfig  `yaml:"storage"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Log      LogConfig      `yaml:"log,omitempty"`
	TUI      TUIConfig      `yaml:"tui,omitempty"`
	HTML     HTMLConfig     `yaml:"html,omitempty"`

	// dir is the absolute path to the board directory (not serialized).
	dir string `yaml:"-"`
}

// BoardConfig holds board metadata.
type BoardConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// StorageConfig selects where the task list is persisted.
type StorageConfig struct {
	Backend string `yaml:"backend"`
	Key     string `yaml:"key"`
}

// DefaultsConfig holds default values for new tasks.
type DefaultsConfig struct {
	Status string `yaml:"status"`
}

// LogConfig controls the logrus logger.
type LogConfig struct {
	Level string `yaml:"level,omitempty"`
	File  string `yaml:"file,omitempty"`
}

// TUIConfig holds TUI-specific display settings.
type TUIConfig struct {
	BodyLines int `yaml:"body_lines,omitempty"`
}

// HTMLConfig controls the HTML board written by 'tasklanes watch'.
type HTMLConfig struct {
	Path  string `yaml:"path,omitempty"`
	Title string `yaml:"title,omitempty"`
}

// Dir returns the absolute path to the board directory.
func (c *Config) Dir() string {
	return c.dir
}

// SetDir sets the board directory path on the config.
func (c *Config) SetDir(dir string) {
	c.dir = dir
}

// ConfigPath returns the absolute path to the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.dir, ConfigFileName)
}

// LogPath returns the log file path, resolved against the board directory.
func (c *Config) LogPath() string {
	return c.resolve(c.Log.File)
}

// HTMLPath returns the HTML board path resolved against the board directory,
// or "" when none is configured.
func (c *Config) HTMLPath() string {
	if c.HTML.Path == "" {
		return ""
	}
	return c.resolve(c.HTML.Path)
}

// HTMLTitle returns the HTML board heading.
func (c *Config) HTMLTitle() string {
	if c.HTML.Title != "" {
		return c.HTML.Title
	}
	if c.Board.Name != "" {
		return c.Board.Name
	}
	return DefaultHTMLTitle
}

// DefaultStatus returns the lane for new tasks.
func (c *Config) DefaultStatus() task.Status {
	s, err := task.ParseStatus(c.Defaults.Status)
	if err != nil {
		return task.StatusAvailable
	}
	return s
}

// StorageKind returns the configured backend kind.
func (c *Config) StorageKind() storage.Kind {
	return storage.Kind(c.Storage.Backend)
}

// StorageKey returns the configured storage key.
func (c *Config) StorageKey() string {
	if c.Storage.Key == "" {
		return DefaultKey
	}
	return c.Storage.Key
}

// LogLevel returns the parsed log level, falling back to info.
func (c *Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// BodyLines returns the number of description lines shown on TUI cards.
func (c *Config) BodyLines() int {
	return c.TUI.BodyLines
}

func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.dir, p)
}

// NewDefault creates a Config with default values.
func NewDefault(name string) *Config {
	return &Config{
		Version:  CurrentVersion,
		Board:    BoardConfig{Name: name},
		Storage:  StorageConfig{Backend: DefaultBackend, Key: DefaultKey},
		Defaults: DefaultsConfig{Status: DefaultStatus},
		Log:      LogConfig{Level: DefaultLogLevel, File: DefaultLogFile},
		TUI:      TUIConfig{BodyLines: DefaultBodyLines},
	}
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalid, c.Version, CurrentVersion)
	}
	if c.Board.Name == "" {
		return fmt.Errorf("%w: board.name is required", ErrInvalid)
	}
	if !slices.Contains(storage.Kinds(), c.Storage.Backend) {
		return fmt.Errorf("%w: unknown storage.backend %q", ErrInvalid, c.Storage.Backend)
	}
	if err := storage.ValidateKey(c.StorageKey()); err != nil {
		return fmt.Errorf("%w: storage.key: %w", ErrInvalid, err)
	}
	if _, err := task.ParseStatus(c.Defaults.Status); err != nil {
		return fmt.Errorf("%w: default status %q is not a lane", ErrInvalid, c.Defaults.Status)
	}
	if c.Log.Level != "" {
		if _, err := log.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("%w: log.level: %w", ErrInvalid, err)
		}
	}
	const maxBodyLines = 3
	if c.TUI.BodyLines < 0 || c.TUI.BodyLines > maxBodyLines {
		return fmt.Errorf("%w: tui.body_lines must be between 0 and %d", ErrInvalid, maxBodyLines)
	}
	return nil
}

// Init creates a new board in the given directory with default settings.
func Init(dir, name string) (*Config, error) {
	const dirMode = 0o750

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg := NewDefault(name)
	cfg.SetDir(absDir)

	if err := os.MkdirAll(absDir, dirMode); err != nil {
		return nil, fmt.Errorf("creating board directory: %w", err)
	}

	if err := cfg.Save(); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to its config file.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(c.ConfigPath(), data, fileMode)
}

// Load reads and validates a config from the given board directory.
func Load(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	path := filepath.Join(absDir, ConfigFileName)
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.dir = absDir

	// Migrate old config versions forward before validating.
	oldVersion := cfg.Version
	if err := migrate(&cfg); err != nil {
		return nil, err
	}

	// Persist migrated config so future loads skip re-migration.
	if cfg.Version != oldVersion {
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("saving migrated config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// FindDir walks upward from startDir looking for a board directory
// containing config.yml. Returns the absolute path to the board directory.
func FindDir(startDir string) (string, error) {
	absStart, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	dir := absStart
	for {
		candidate := filepath.Join(dir, DefaultDir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return filepath.Join(dir, DefaultDir), nil
		}

		// Also check if we're inside the board directory itself.
		candidate = filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", clierr.New(clierr.BoardNotFound,
				"no task board found (run 'tasklanes init' to create one)")
		}
		dir = parent
	}
}
