// Package config provides configuration data structures for globe.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config represents the complete globe configuration loaded from config.yaml.
type Config struct {
	API     APIConfig     `yaml:"api"     json:"api"     mapstructure:"api"`
	Storage StorageConfig `yaml:"storage" json:"storage" mapstructure:"storage"`
	Locale  LocaleConfig  `yaml:"locale"  json:"locale"  mapstructure:"locale"`
	UI      UIConfig      `yaml:"ui"      json:"ui"      mapstructure:"ui"`
	Log     LogConfig     `yaml:"log"     json:"log"     mapstructure:"log"`
}

// APIConfig configures the countries backend.
type APIConfig struct {
	// URL is the backend base URL (default: http://localhost:3000).
	URL string `yaml:"url" json:"url" mapstructure:"url"`
	// Timeout bounds each request. Zero leaves it to the transport.
	Timeout time.Duration `yaml:"timeout" json:"timeout" mapstructure:"timeout"`
}

// StorageBackend selects where the session is persisted.
type StorageBackend string

const (
	// StorageFile keeps all keys in a single JSON file.
	StorageFile StorageBackend = "file"
	// StorageSQLite keeps keys in a SQLite database.
	StorageSQLite StorageBackend = "sqlite"
	// StorageMemory keeps keys in memory for the lifetime of the process.
	StorageMemory StorageBackend = "memory"
)

// StorageConfig configures local persisted storage.
type StorageConfig struct {
	// Backend is file, sqlite or memory (default: file).
	Backend StorageBackend `yaml:"backend" json:"backend" mapstructure:"backend"`
	// Path is the storage file. Empty means a default under the config dir.
	Path string `yaml:"path" json:"path" mapstructure:"path"`
}

// LocaleConfig configures display text.
type LocaleConfig struct {
	// Name is a BCP 47 tag matched against the bundled locales (default: pt-BR).
	Name string `yaml:"name" json:"name" mapstructure:"name"`
	// File optionally replaces the bundled table with a JSON or YAML file.
	File string `yaml:"file" json:"file" mapstructure:"file"`
}

// Theme is the TUI color scheme.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// UIConfig configures the terminal interface.
type UIConfig struct {
	// Theme is the initial theme when none was toggled before (default: dark).
	Theme Theme `yaml:"theme" json:"theme" mapstructure:"theme"`
	// ScrollThreshold is how many rows from the end of the list the next page
	// is requested (default: 3).
	ScrollThreshold int `yaml:"scroll_threshold" json:"scroll_threshold" mapstructure:"scroll_threshold"`
}

// LogConfig configures file logging.
type LogConfig struct {
	// Dir is the log directory. Empty means a default under the cache dir.
	Dir string `yaml:"dir" json:"dir" mapstructure:"dir"`
	// MaxFiles is how many log files to keep (default: 10).
	MaxFiles int `yaml:"max_files" json:"max_files" mapstructure:"max_files"`
	// MaxAge is how long log files are kept (default: 168h).
	MaxAge time.Duration `yaml:"max_age" json:"max_age" mapstructure:"max_age"`
	// JSON switches the log format to JSON lines.
	JSON bool `yaml:"json" json:"json" mapstructure:"json"`
}

// Default values.
const (
	DefaultAPIURL          = "http://localhost:3000"
	DefaultLocale          = "pt-BR"
	DefaultScrollThreshold = 3
	DefaultMaxLogFiles     = 10
	DefaultMaxLogAge       = 7 * 24 * time.Hour
)

// Dir returns globe's configuration directory.
func Dir() string {
	base, err := os.UserConfigDir()
	if err != nil || base == "" {
		base = os.TempDir()
	}
	return filepath.Join(base, "globe")
}

// cacheDir returns globe's cache directory, used for logs.
func cacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil || base == "" {
		base = os.TempDir()
	}
	return filepath.Join(base, "globe")
}

// NewConfig returns a new Config with default values applied.
func NewConfig() *Config {
	return &Config{
		API: APIConfig{
			URL: DefaultAPIURL,
		},
		Storage: StorageConfig{
			Backend: StorageFile,
			Path:    filepath.Join(Dir(), "storage.json"),
		},
		Locale: LocaleConfig{
			Name: DefaultLocale,
		},
		UI: UIConfig{
			Theme:           ThemeDark,
			ScrollThreshold: DefaultScrollThreshold,
		},
		Log: LogConfig{
			Dir:      filepath.Join(cacheDir(), "logs"),
			MaxFiles: DefaultMaxLogFiles,
			MaxAge:   DefaultMaxLogAge,
		},
	}
}

// ApplyDefaults applies default values to any unset fields.
func (c *Config) ApplyDefaults() {
	defaults := NewConfig()

	if c.API.URL == "" {
		c.API.URL = defaults.API.URL
	}
	c.API.URL = strings.TrimRight(c.API.URL, "/")

	if c.Storage.Backend == "" {
		c.Storage.Backend = defaults.Storage.Backend
	}
	if c.Storage.Path == "" {
		switch c.Storage.Backend {
		case StorageSQLite:
			c.Storage.Path = filepath.Join(Dir(), "storage.db")
		default:
			c.Storage.Path = defaults.Storage.Path
		}
	}

	if c.Locale.Name == "" {
		c.Locale.Name = defaults.Locale.Name
	}

	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if c.UI.ScrollThreshold == 0 {
		c.UI.ScrollThreshold = defaults.UI.ScrollThreshold
	}

	if c.Log.Dir == "" {
		c.Log.Dir = defaults.Log.Dir
	}
	if c.Log.MaxFiles == 0 {
		c.Log.MaxFiles = defaults.Log.MaxFiles
	}
	if c.Log.MaxAge == 0 {
		c.Log.MaxAge = defaults.Log.MaxAge
	}
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	msg := "multiple validation errors:"
	for _, err := range e {
		msg += "\n  - " + err.Error()
	}
	return msg
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if c.API.URL != "" && !strings.HasPrefix(c.API.URL, "http://") && !strings.HasPrefix(c.API.URL, "https://") {
		errs = append(errs, &ValidationError{Field: "api.url", Message: "must start with http:// or https://"})
	}
	if c.API.Timeout < 0 {
		errs = append(errs, &ValidationError{Field: "api.timeout", Message: "must be non-negative"})
	}

	if c.Storage.Backend != "" {
		switch c.Storage.Backend {
		case StorageFile, StorageSQLite, StorageMemory:
			// valid
		default:
			errs = append(errs, &ValidationError{
				Field:   "storage.backend",
				Message: "must be 'file', 'sqlite', or 'memory'",
			})
		}
	}

	if c.UI.Theme != "" {
		switch c.UI.Theme {
		case ThemeDark, ThemeLight:
			// valid
		default:
			errs = append(errs, &ValidationError{
				Field:   "ui.theme",
				Message: "must be 'dark' or 'light'",
			})
		}
	}
	if c.UI.ScrollThreshold < 0 {
		errs = append(errs, &ValidationError{Field: "ui.scroll_threshold", Message: "must be non-negative"})
	}

	if c.Log.MaxFiles < 0 {
		errs = append(errs, &ValidationError{Field: "log.max_files", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// String summarizes the effective configuration for `globe config show`.
func (c *Config) String() string {
	return fmt.Sprintf("api.url=%s api.timeout=%s storage.backend=%s storage.path=%s locale.name=%s ui.theme=%s",
		c.API.URL, c.API.Timeout, c.Storage.Backend, c.Storage.Path, c.Locale.Name, c.UI.Theme)
}
