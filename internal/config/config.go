package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config represents the optional rcopy configuration file.
type Config struct {
	Defaults DefaultsConfig `toml:"defaults"`
	Theme    ThemeConfig    `toml:"theme"`
}

// DefaultsConfig holds persistent flag defaults. Unset fields are nil so
// callers can tell "absent" from a zero value.
type DefaultsConfig struct {
	MaxWait   *string `toml:"max_wait"`
	ChunkSize *string `toml:"chunk_size"`
	BWLimit   *string `toml:"bwlimit"`
	Verify    *bool   `toml:"verify"`
	Sync      *bool   `toml:"sync"`
}

// ThemeConfig holds optional color overrides.
type ThemeConfig struct {
	Green  *string `toml:"green"`
	Blue   *string `toml:"blue"`
	Yellow *string `toml:"yellow"`
	Red    *string `toml:"red"`
	Muted  *string `toml:"muted"`
	Bright *string `toml:"bright"`
}

// Path returns the resolved path to the config file.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "rcopy", "config.toml")
}

// Load reads the config file from the XDG path. Returns a zero Config
// (no error) if the file does not exist. Config is always optional.
func Load() (Config, error) {
	path := Path()
	if path == "" {
		return Config{}, nil
	}
	return LoadFile(path)
}

// LoadFile reads the config file at path. A missing file yields a zero
// Config; unknown keys and malformed values are errors.
func LoadFile(path string) (Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if _, err := cfg.Defaults.Resolve(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Values are the parsed forms of DefaultsConfig. Zero means unset.
type Values struct {
	MaxWait   time.Duration
	ChunkSize int64
	BWLimit   int64
}

// Resolve parses the string-typed defaults.
func (d DefaultsConfig) Resolve() (Values, error) {
	var v Values
	if d.MaxWait != nil {
		dur, err := time.ParseDuration(*d.MaxWait)
		if err != nil {
			return Values{}, fmt.Errorf("max_wait: %w", err)
		}
		if dur <= 0 {
			return Values{}, fmt.Errorf("max_wait: must be positive, got %s", dur)
		}
		v.MaxWait = dur
	}
	if d.ChunkSize != nil {
		n, err := ParseSize(*d.ChunkSize)
		if err != nil {
			return Values{}, fmt.Errorf("chunk_size: %w", err)
		}
		if n <= 0 {
			return Values{}, errors.New("chunk_size: must be positive")
		}
		v.ChunkSize = n
	}
	if d.BWLimit != nil {
		n, err := ParseSize(*d.BWLimit)
		if err != nil {
			return Values{}, fmt.Errorf("bwlimit: %w", err)
		}
		v.BWLimit = n
	}
	return v, nil
}
