package config

import (
	gotoml "github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/flnk/pkg/errors"
)

// TOML renders the effective configuration in the format of the embedded
// defaults, so the output can be saved and passed back with --config.
func (c *Config) TOML() ([]byte, error) {
	out, err := gotoml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode configuration")
	}
	return out, nil
}
