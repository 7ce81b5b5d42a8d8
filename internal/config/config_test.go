package config

import (
	"os"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable the loader reads and restores them after
// the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{KeyInput, KeyOutput, KeyTargets, KeyGoPackage, KeyWorkers, KeyDebug, KeyDSN, KeyDialect} {
		name := EnvPrefix + "_" + strings.ToUpper(k)
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
}

func newLoader(fs afero.Fs) *Loader {
	return NewLoader(fs).WithDir("/work").WithHome("/home/u")
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := newLoader(afero.NewMemMapFs()).Load()
	require.NoError(t, err)
	assert.Equal(t, "./generated", cfg.Output)
	assert.Equal(t, []string{"sql", "hooks"}, cfg.Targets)
	assert.Equal(t, "models", cfg.GoPackage)
	assert.Equal(t, "postgres", cfg.Dialect)
	assert.Positive(t, cfg.Workers)
	assert.False(t, cfg.Debug)
	assert.Empty(t, cfg.Input)
	assert.Empty(t, cfg.DSN)
	assert.Empty(t, cfg.File)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)

	t.Run("Working directory", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/work/.specgen.yaml", []byte(`
input: api/openapi.yaml
output: out
targets: [sql, go]
go_package: api
workers: 3
debug: true
`), 0o644))
		require.NoError(t, afero.WriteFile(fs, "/home/u/.specgen.yaml", []byte("output: home\n"), 0o644))

		cfg, err := newLoader(fs).Load()
		require.NoError(t, err)
		assert.Equal(t, "/work/.specgen.yaml", cfg.File)
		assert.Equal(t, "api/openapi.yaml", cfg.Input)
		assert.Equal(t, "out", cfg.Output)
		assert.Equal(t, []string{"sql", "go"}, cfg.Targets)
		assert.Equal(t, "api", cfg.GoPackage)
		assert.Equal(t, 3, cfg.Workers)
		assert.True(t, cfg.Debug)
	})

	t.Run("Home config directory", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/home/u/.config/specgen/.specgen.yaml", []byte("dialect: sqlite\n"), 0o644))
		cfg, err := newLoader(fs).Load()
		require.NoError(t, err)
		assert.Equal(t, "sqlite", cfg.Dialect)
	})

	t.Run("Malformed", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/work/.specgen.yaml", []byte("output: [\n"), 0o644))
		_, err := newLoader(fs).Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read config")
	})
}

func TestLoadEnv(t *testing.T) {
	clearEnv(t)
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/work/.specgen.yaml", []byte("output: file\ngo_package: file\n"), 0o644))
	t.Setenv("SPECGEN_OUTPUT", "env")
	t.Setenv("SPECGEN_TARGETS", "hooks, go")

	cfg, err := newLoader(fs).Load()
	require.NoError(t, err)
	assert.Equal(t, "env", cfg.Output)
	assert.Equal(t, "file", cfg.GoPackage)
	assert.Equal(t, []string{"hooks", "go"}, cfg.Targets)
}

func TestLoadDotenv(t *testing.T) {
	clearEnv(t)
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/work/.env", []byte("SPECGEN_GO_PACKAGE=dotenv\nSPECGEN_DSN=postgres://env\nSPECGEN_DIALECT=postgres\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/work/.env.local", []byte("SPECGEN_DSN=postgres://local\n"), 0o644))
	t.Setenv("SPECGEN_DIALECT", "sqlite")

	cfg, err := newLoader(fs).Load()
	require.NoError(t, err)
	assert.Equal(t, "dotenv", cfg.GoPackage)
	assert.Equal(t, "postgres://local", cfg.DSN, ".env.local overrides .env")
	assert.Equal(t, "sqlite", cfg.Dialect, ".env does not override the environment")
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"sql", "hooks", "go"}, splitList([]string{"sql,hooks", " go ", ""}))
	assert.Nil(t, splitList(nil))
}
