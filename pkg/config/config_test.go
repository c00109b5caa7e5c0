package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	valid := func(mut func(*Config)) Config {
		cfg := *NewDefault()
		mut(&cfg)
		return cfg
	}

	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{
			name:   "valid defaults",
			config: *NewDefault(),
		},
		{
			name:   "zero port picks a free port",
			config: valid(func(c *Config) { c.Port = 0 }),
		},
		{
			name:    "port too high",
			config:  valid(func(c *Config) { c.Port = 70000 }),
			wantErr: "port 70000 is out of range",
		},
		{
			name:    "port negative",
			config:  valid(func(c *Config) { c.Port = -1 }),
			wantErr: "port -1 is out of range",
		},
		{
			name:    "read timeout too high",
			config:  valid(func(c *Config) { c.ReadTimeout = 9999 }),
			wantErr: "readTimeout 9999 is out of range",
		},
		{
			name:    "write timeout negative",
			config:  valid(func(c *Config) { c.WriteTimeout = -1 }),
			wantErr: "writeTimeout -1 is out of range",
		},
		{
			name:    "body limit zero",
			config:  valid(func(c *Config) { c.MaxBodyBytes = 0 }),
			wantErr: "maxBodyBytes 0 is out of range",
		},
		{
			name:    "empty seed file",
			config:  valid(func(c *Config) { c.SeedFile = " " }),
			wantErr: "seedFile must not be empty",
		},
		{
			name:    "unknown log level",
			config:  valid(func(c *Config) { c.LogLevel = "loud" }),
			wantErr: `logLevel "loud"`,
		},
		{
			name:   "log level is case insensitive",
			config: valid(func(c *Config) { c.LogLevel = "DEBUG" }),
		},
		{
			name:    "unknown log format",
			config:  valid(func(c *Config) { c.LogFormat = "xml" }),
			wantErr: `logFormat "xml"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_ValidateReportsEveryProblem(t *testing.T) {
	cfg := NewDefault()
	cfg.Port = -1
	cfg.LogFormat = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port -1")
	assert.Contains(t, err.Error(), "logFormat")
}

func TestNewDefault(t *testing.T) {
	cfg := NewDefault()
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultSeedFile, cfg.SeedFile)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, SourceDefault, cfg.Sources["port"])
	assert.Equal(t, ":3000", cfg.Addr())
}

func TestMergeConfig(t *testing.T) {
	t.Run("merges non-zero values without sources", func(t *testing.T) {
		target := NewDefault()
		MergeConfig(target, &Config{Port: 9000, SeedFile: "data.yaml"}, SourceFlag)

		assert.Equal(t, 9000, target.Port)
		assert.Equal(t, "data.yaml", target.SeedFile)
		assert.Equal(t, SourceFlag, target.Sources["port"])
		assert.Equal(t, SourceDefault, target.Sources["logLevel"])
	})

	t.Run("does not overwrite with zero values", func(t *testing.T) {
		target := NewDefault()
		MergeConfig(target, &Config{}, SourceLocal)
		assert.Equal(t, DefaultPort, target.Port)
	})

	t.Run("explicit zero applies when tracked", func(t *testing.T) {
		target := NewDefault()
		MergeConfig(target, &Config{Port: 0, Sources: map[string]string{"port": SourceLocal}}, SourceLocal)
		assert.Equal(t, 0, target.Port)
		assert.Equal(t, SourceLocal, target.Sources["port"])
	})

	t.Run("nil source is no-op", func(t *testing.T) {
		target := NewDefault()
		MergeConfig(target, nil, SourceLocal)
		assert.Equal(t, DefaultPort, target.Port)
	})
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(dir, "ok.yaml")
		require.NoError(t, os.WriteFile(path, []byte("port: 8080\nseedFile: data/seed.yaml\ncorsOrigins: [\"http://a.test\"]\n"), 0o600))

		cfg, err := LoadConfigFile(path)
		require.NoError(t, err)
		assert.Equal(t, 8080, cfg.Port)
		assert.Equal(t, "data/seed.yaml", cfg.SeedFile)
		assert.Equal(t, []string{"http://a.test"}, cfg.CORSOrigins)
		assert.Len(t, cfg.Sources, 3)
	})

	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(dir, "empty.yaml")
		require.NoError(t, os.WriteFile(path, nil, 0o600))

		cfg, err := LoadConfigFile(path)
		require.NoError(t, err)
		assert.Empty(t, cfg.Sources)
	})

	t.Run("unknown key", func(t *testing.T) {
		path := filepath.Join(dir, "unknown.yaml")
		require.NoError(t, os.WriteFile(path, []byte("port: 1\nadminPort: 2\n"), 0o600))

		_, err := LoadConfigFile(path)
		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, 2, cfgErr.Line)
		assert.Contains(t, cfgErr.Error(), "adminPort")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfigFile(filepath.Join(dir, "nope.yaml"))
		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestLoadAll_Precedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seedapi.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 8080\nlogLevel: debug\n"), 0o600))

	t.Setenv(EnvPort, "9090")
	t.Setenv(EnvCORSOrigins, "http://a.test, ,http://b.test")

	cfg, err := LoadAll(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, SourceEnv, cfg.Sources["port"])
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, SourceLocal, cfg.Sources["logLevel"])
	assert.Equal(t, DefaultSeedFile, cfg.SeedFile)
	assert.Equal(t, SourceDefault, cfg.Sources["seedFile"])
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestLoadAll_LocalFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".seedapirc.yaml"), []byte("seedFile: local.json\n"), 0o600))
	t.Chdir(dir)

	cfg, err := LoadAll("")
	require.NoError(t, err)
	assert.Equal(t, "local.json", cfg.SeedFile)
}

func TestLoadAll_BadEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(EnvReadTimeout, "soon")

	_, err := LoadAll("")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), EnvReadTimeout))
}
