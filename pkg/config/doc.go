// Package config loads flnk's layered configuration with koanf.
//
// Layers are merged in order, later wins: the embedded defaults, an
// explicit config file (TOML or YAML), SIMPLE_BACKUP_SUFFIX, FLNK_*
// environment variables and finally the command-line flags the user
// actually set. No config file is read unless one is named.
package config
