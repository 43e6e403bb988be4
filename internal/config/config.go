package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cast"
	"go.dw1.io/safemath"
	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable holding the default config path.
const EnvPath = "REREP_CONFIG"

// Config holds the settings a config file may provide. Zero values mean the
// file did not set the key; Set records which keys were present.
type Config struct {
	ICase    bool
	Write    bool
	Dialect  string
	First    bool
	Encoding string
	Jobs     int
	Timeout  time.Duration
	Report   bool

	Set map[string]bool
}

// Keys lists the accepted config keys.
var Keys = []string{"icase", "write", "dialect", "first", "encoding", "jobs", "timeout", "report"}

// Load reads the config file at path. The format follows the extension:
// .toml, or .yaml/.yml.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	raw := map[string]any{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), &raw); err != nil {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
	default:
		return Config{}, fmt.Errorf("config %s: unsupported format %q", path, ext)
	}

	cfg, err := FromMap(raw)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// FromMap coerces decoded config values into a Config.
func FromMap(raw map[string]any) (Config, error) {
	cfg := Config{Set: make(map[string]bool, len(raw))}

	for key, v := range raw {
		key = strings.ToLower(key)
		if !slices.Contains(Keys, key) {
			return Config{}, fmt.Errorf("unknown key %q", key)
		}

		var err error
		switch key {
		case "icase":
			cfg.ICase, err = To[bool](v)
		case "write":
			cfg.Write, err = To[bool](v)
		case "dialect":
			cfg.Dialect, err = To[string](v)
		case "first":
			cfg.First, err = To[bool](v)
		case "encoding":
			cfg.Encoding, err = To[string](v)
		case "jobs":
			cfg.Jobs, err = To[int](v)
		case "timeout":
			cfg.Timeout, err = To[time.Duration](v)
		case "report":
			cfg.Report, err = To[bool](v)
		}
		if err != nil {
			return Config{}, fmt.Errorf("key %q: %w", key, err)
		}

		cfg.Set[key] = true
	}

	return cfg, nil
}

// Type is the set of value types a config key can take.
type Type interface {
	bool | string | int | time.Duration
}

// To converts a decoded value to T. Integers go through safemath so that an
// out-of-range count is an error instead of a wrapped value; everything else
// goes through spf13/cast.
func To[T Type](v any) (T, error) {
	var zero T

	if _, ok := any(zero).(int); ok && isIntVal(v) {
		n, err := safemath.ConvertAny[int](v)
		if err != nil {
			return zero, err
		}
		return any(n).(T), nil
	}

	// A bare number is read as seconds rather than nanoseconds.
	if _, ok := any(zero).(time.Duration); ok && isIntVal(v) {
		s, err := safemath.ConvertAny[int64](v)
		if err != nil {
			return zero, err
		}
		return any(time.Duration(s) * time.Second).(T), nil
	}

	return cast.ToE[T](v)
}

// isIntVal reports whether v's dynamic type is one of the integer types
// eligible for safemath conversions.
func isIntVal(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, uintptr:
		return true
	default:
		return false
	}
}
