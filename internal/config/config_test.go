package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTOML(t *testing.T) {
	path := writeConfig(t, "rerep.toml", `
icase = true
dialect = "native"
jobs = 4
timeout = "250ms"
encoding = "utf-16le"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.True(t, cfg.ICase)
	require.Equal(t, "native", cfg.Dialect)
	require.Equal(t, 4, cfg.Jobs)
	require.Equal(t, 250*time.Millisecond, cfg.Timeout)
	require.Equal(t, "utf-16le", cfg.Encoding)
	require.True(t, cfg.Set["jobs"])
	require.False(t, cfg.Set["write"])
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "rerep.yaml", `
write: true
first: "true"
timeout: 3
report: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.True(t, cfg.Write)
	require.True(t, cfg.Report)
	require.Equal(t, 3*time.Second, cfg.Timeout)
	require.True(t, cfg.Set["first"])
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(writeConfig(t, "rerep.json", `{}`))
	require.ErrorContains(t, err, "unsupported format")

	_, err = Load(writeConfig(t, "rerep.toml", `colour = "on"`))
	require.ErrorContains(t, err, "unknown key")

	_, err = Load(writeConfig(t, "rerep.toml", `jobs = "many"`))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "rerep.yaml", "icase: [1, 2"))
	require.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestToIntegers(t *testing.T) {
	n, err := To[int](int64(8))
	require.NoError(t, err)
	require.Equal(t, 8, n)

	n, err = To[int]("12")
	require.NoError(t, err)
	require.Equal(t, 12, n)

	_, err = To[int](uint64(math.MaxUint64))
	require.Error(t, err)
}

func TestToDuration(t *testing.T) {
	d, err := To[time.Duration]("1m30s")
	require.NoError(t, err)
	require.Equal(t, 90*time.Second, d)

	d, err = To[time.Duration](int64(2))
	require.NoError(t, err)
	require.Equal(t, 2*time.Second, d)
}
