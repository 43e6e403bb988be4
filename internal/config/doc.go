// Package config loads rerep settings from a TOML or YAML file.
//
// Decoded values are coerced with [cast.ToE], except integers, which are
// converted with [safemath.ConvertAny] to catch overflow and underflow.
package config
