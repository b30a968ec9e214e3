package config

import (
	_ "embed"
	stderrors "errors"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/arthur-debert/flnk/pkg/errors"
	"github.com/arthur-debert/flnk/pkg/logging"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

const (
	envPrefix = "FLNK_"
	// suffixEnv is the conventional backup suffix override of link utilities.
	suffixEnv = "SIMPLE_BACKUP_SUFFIX"
)

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// Options selects the optional layers of Load.
type Options struct {
	// File is an explicit config file; empty reads none.
	File string
	// Flags holds the command-line flags that were set, keyed by their
	// config path (e.g. "link.suffix").
	Flags map[string]interface{}
}

// Load merges every configuration layer and validates the result.
func Load(opts Options) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. Explicit config file
	if opts.File != "" {
		parser, err := parserFor(opts.File)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(opts.File), parser); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad,
				"failed to load config from %s", opts.File).
				WithDetail("file", opts.File)
		}
		logger.Debug().Str("file", opts.File).Msg("Loaded config file")
	}

	// 3. SIMPLE_BACKUP_SUFFIX
	err := k.Load(env.ProviderWithValue(suffixEnv, ".", func(key, value string) (string, interface{}) {
		if key != suffixEnv || value == "" {
			return "", nil
		}
		return "link.suffix", value
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load backup suffix from environment")
	}

	// 4. FLNK_* env vars: FLNK_LINK_FILES_ONLY -> link.files_only
	err = k.Load(env.ProviderWithValue(envPrefix, ".", envKey), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	// 5. Flags set on the command line
	if len(opts.Flags) > 0 {
		if err := k.Load(confmap.Provider(opts.Flags, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load flags")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			ErrorUnused:      true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				trimStringHookFunc(),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to unmarshal configuration")
	}

	cfg.Output.Format = strings.ToLower(cfg.Output.Format)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the embedded defaults alone.
func Default() *Config {
	k := koanf.New(".")
	var cfg Config
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return &cfg
	}
	_ = k.Unmarshal("", &cfg)
	return &cfg
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Parser(), nil
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	default:
		return nil, errors.Newf(errors.ErrConfigLoad,
			"unsupported config format %q (use .toml, .yaml or .yml)", filepath.Ext(path)).
			WithDetail("file", path)
	}
}

// envKey maps FLNK_SECTION_SOME_KEY to section.some_key. Empty values and
// variables without a section are ignored.
func envKey(name, value string) (string, interface{}) {
	key := strings.ToLower(strings.TrimPrefix(name, envPrefix))
	if value == "" || !strings.Contains(key, "_") {
		return "", nil
	}
	return strings.Replace(key, "_", ".", 1), value
}

// trimStringHookFunc strips surrounding whitespace from string values.
func trimStringHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() == reflect.String && t.Kind() == reflect.String {
			return strings.TrimSpace(reflect.ValueOf(data).String()), nil
		}
		return data, nil
	}
}
