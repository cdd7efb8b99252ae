package pipeline

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	errs "github.com/Wesbraak3/Dungeon-Generator/pkg/errors"
)

// Config is the on-disk configuration file. Generation settings live under
// [generate]; server and cache settings are read by the CLI.
//
//	[generate]
//	width = 120
//	height = 60
//	strategy = "dfs-random"
//
//	[cache]
//	dsn = "redis://localhost:6379/0"
type Config struct {
	Generate Options      `toml:"generate"`
	Cache    CacheConfig  `toml:"cache"`
	Server   ServerConfig `toml:"server"`
}

// CacheConfig selects the cache backend; see cache.Open for DSN forms.
type CacheConfig struct {
	DSN      string `toml:"dsn"`
	Disabled bool   `toml:"disabled"`
	Prefix   string `toml:"prefix"` // namespaces keys on a shared backend
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// LoadConfig decodes a TOML config file. Unknown keys are rejected so typos
// surface instead of silently falling back to defaults.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	err := LoadConfigInto(path, &cfg)
	return cfg, err
}

// LoadConfigInto decodes a TOML config file over cfg. Keys absent from the
// file keep the values already in cfg.
func LoadConfigInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return errs.Wrap(errs.ErrCodeFileNotFound, err, "config file %s", path)
	}
	if err != nil {
		return err
	}
	return ParseConfigInto(string(data), cfg)
}

// ParseConfig decodes TOML config text.
func ParseConfig(text string) (Config, error) {
	var cfg Config
	err := ParseConfigInto(text, &cfg)
	return cfg, err
}

// ParseConfigInto decodes TOML config text over cfg.
func ParseConfigInto(text string, cfg *Config) error {
	md, err := toml.Decode(text, cfg)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse config")
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		keys := make([]string, len(undec))
		for i, k := range undec {
			keys[i] = k.String()
		}
		return errs.New(errs.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	return nil
}
