// Package config holds the bridge's startup configuration: language
// registration metadata and editor-service setup flags. Configuration
// is fixed at startup and not runtime-tunable; a missing config file
// means defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Language is the registration metadata for the document type the
// bridge serves.
type Language struct {
	ID         string   `toml:"id"`
	Extensions []string `toml:"extensions"`
	Aliases    []string `toml:"aliases"`
	MimeTypes  []string `toml:"mime_types"`
}

// Setup holds the editor-service bootstrap flags: which capabilities are
// wired, validation timing, and formatting defaults.
type Setup struct {
	Completion  bool `toml:"completion"`
	Hover       bool `toml:"hover"`
	Symbols     bool `toml:"symbols"`
	Formatting  bool `toml:"formatting"`
	Diagnostics bool `toml:"diagnostics"`
	Schemas     bool `toml:"schemas"`

	DebounceMillis int `toml:"debounce_millis"`

	TabSize      int  `toml:"tab_size"`
	InsertSpaces bool `toml:"insert_spaces"`
}

// Config is the full bridge configuration.
type Config struct {
	Language Language `toml:"language"`
	Setup    Setup    `toml:"setup"`
}

// DebounceDelay returns the validation debounce delay.
func (c Config) DebounceDelay() time.Duration {
	return time.Duration(c.Setup.DebounceMillis) * time.Millisecond
}

// Default returns the built-in JSON registration and setup.
func Default() Config {
	return Config{
		Language: Language{
			ID:         "json",
			Extensions: []string{".json"},
			Aliases:    []string{"JSON", "json"},
			MimeTypes:  []string{"application/json"},
		},
		Setup: Setup{
			Completion:     true,
			Hover:          true,
			Symbols:        true,
			Formatting:     true,
			Diagnostics:    true,
			Schemas:        true,
			DebounceMillis: 300,
			TabSize:        4,
			InsertSpaces:   true,
		},
	}
}

// ParseError describes a malformed configuration file.
type ParseError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing config file %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Load reads configuration from a TOML file, layered over defaults. A
// missing file is not an error; it yields the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), &ParseError{Path: path, Err: err}
	}

	if cfg.Language.ID == "" {
		cfg.Language.ID = "json"
	}
	if cfg.Setup.DebounceMillis <= 0 {
		cfg.Setup.DebounceMillis = 300
	}
	if cfg.Setup.TabSize <= 0 {
		cfg.Setup.TabSize = 4
	}
	return cfg, nil
}
