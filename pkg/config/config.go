package config

import (
	"slices"
	"strings"

	"github.com/arthur-debert/flnk/pkg/errors"
)

// Output formats accepted by output.format.
var Formats = []string{"auto", "terminal", "text", "json"}

// Config is the effective configuration of one invocation.
type Config struct {
	Link   LinkConfig   `koanf:"link" toml:"link"`
	Output OutputConfig `koanf:"output" toml:"output"`
	Log    LogConfig    `koanf:"log" toml:"log"`
}

// LinkConfig holds the linking defaults.
type LinkConfig struct {
	Suffix    string `koanf:"suffix" toml:"suffix"`
	Workers   int    `koanf:"workers" toml:"workers"`
	FilesOnly bool   `koanf:"files_only" toml:"files_only"`
}

// OutputConfig selects the report renderer.
type OutputConfig struct {
	Format string `koanf:"format" toml:"format"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level int  `koanf:"level" toml:"level"`
	File  bool `koanf:"file" toml:"file"`
}

// Validate checks the values that cannot be expressed by their types.
func (c *Config) Validate() error {
	switch {
	case c.Link.Suffix == "":
		return errors.New(errors.ErrConfigValid, "link.suffix must not be empty")
	case strings.ContainsRune(c.Link.Suffix, '/'):
		return errors.Newf(errors.ErrConfigValid,
			"link.suffix %q must not contain a path separator", c.Link.Suffix).
			WithDetail("key", "link.suffix")
	case c.Link.Workers < 1:
		return errors.Newf(errors.ErrConfigValid,
			"link.workers must be at least 1, got %d", c.Link.Workers).
			WithDetail("key", "link.workers")
	case !slices.Contains(Formats, c.Output.Format):
		return errors.Newf(errors.ErrConfigValid,
			"output.format %q is not one of %s", c.Output.Format, strings.Join(Formats, ", ")).
			WithDetail("key", "output.format")
	case c.Log.Level < 0:
		return errors.Newf(errors.ErrConfigValid,
			"log.level must not be negative, got %d", c.Log.Level).
			WithDetail("key", "log.level")
	}
	return nil
}
