package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestLoadConfig_Defaults(t *testing.T) {
	home := isolateHome(t)

	cfg, err := loadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, sourceCatalog, cfg.DataSource)
	assert.Equal(t, defaultSkin, cfg.Skin)
	assert.Equal(t, defaultAPIPort, cfg.APIPort)
	assert.Equal(t, "127.0.0.1:3000", cfg.APIAddr)
	assert.Equal(t, defaultQueryTimeout, cfg.QueryTimeout)
	assert.Equal(t, filepath.Join(home, ".local", "share", "campus", "campus.duckdb"), cfg.DBPath)
	assert.Equal(t, filepath.Join(home, ".local", "state", "campus", "campus.log"), cfg.LogFile)
	assert.Equal(t, filepath.Join(home, ".config", "campus"), cfg.ConfigDir)
}

func TestLoadConfig_File(t *testing.T) {
	home := isolateHome(t)

	path := filepath.Join(t.TempDir(), "campus.yml")
	content := `data-source: duckdb
db-path: ~/data/college.duckdb
query-timeout: 3s
skin: dusk
api-port: 8088
reverse-scroll-wheel: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := loadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, sourceDuckDB, cfg.DataSource)
	assert.Equal(t, filepath.Join(home, "data", "college.duckdb"), cfg.DBPath)
	assert.Equal(t, 3*time.Second, cfg.QueryTimeout)
	assert.Equal(t, "dusk", cfg.Skin)
	assert.Equal(t, "127.0.0.1:8088", cfg.APIAddr)
	assert.True(t, cfg.ReverseScrollWheel)
	assert.Equal(t, path, cfg.ConfigPath)
	assert.Equal(t, filepath.Dir(path), cfg.ConfigDir)
}

func TestLoadConfig_EnvAndFlags(t *testing.T) {
	isolateHome(t)
	t.Setenv("CAMPUS_SKIN", "from-env")
	t.Setenv("CAMPUS_API_PORT", "9100")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("skin", "", "")
	flags.String("data-source", "", "")
	require.NoError(t, flags.Parse([]string{"--data-source", "DuckDB"}))

	cfg, err := loadConfig("", flags)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Skin, "unset flags must not override env")
	assert.Equal(t, sourceDuckDB, cfg.DataSource)
	assert.Equal(t, 9100, cfg.APIPort)

	require.NoError(t, flags.Parse([]string{"--skin", "from-flag"}))
	cfg, err = loadConfig("", flags)
	require.NoError(t, err)
	assert.Equal(t, "from-flag", cfg.Skin)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "data source", env: map[string]string{"CAMPUS_DATA_SOURCE": "postgres"}},
		{name: "port", env: map[string]string{"CAMPUS_API_PORT": "70000"}},
		{name: "log level", env: map[string]string{"CAMPUS_LOG_LEVEL": "chatty"}},
		{name: "query timeout", env: map[string]string{"CAMPUS_QUERY_TIMEOUT": "0s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateHome(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := loadConfig("", nil)
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_BadFile(t *testing.T) {
	isolateHome(t)

	path := filepath.Join(t.TempDir(), "broken.yml")
	require.NoError(t, os.WriteFile(path, []byte("skin: [unterminated"), 0644))

	_, err := loadConfig(path, nil)
	assert.Error(t, err)
}
