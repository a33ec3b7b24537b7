package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lebdash.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{EnvInfrastructureURL, EnvDebtURL, EnvAddr, EnvCacheTTL} {
		t.Setenv(name, "")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	config, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)

	config, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
data:
  debt_url: ./testdata/debt.csv
http:
  timeout: 5s
  cache_ttl: 0s
server:
  addr: ":9090"
chart:
  width: 400
map:
  zoom: 8
`)

	config, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultInfrastructureURL, config.Data.InfrastructureURL)
	assert.Equal(t, "./testdata/debt.csv", config.Data.DebtURL)
	assert.Equal(t, 5*time.Second, config.HTTP.Timeout.Std())
	assert.Equal(t, time.Duration(0), config.HTTP.CacheTTL.Std())
	assert.Equal(t, DefaultConfig().HTTP.RateLimit, config.HTTP.RateLimit)
	assert.Equal(t, ":9090", config.Server.Addr)
	assert.Equal(t, 400.0, config.Chart.Width)
	assert.Equal(t, DefaultConfig().Chart.Height, config.Chart.Height)
	assert.Equal(t, 8, config.Map.Zoom)

	sourceConfig := config.SourceConfig(nil)
	assert.Equal(t, 5*time.Second, sourceConfig.Timeout)
	assert.Equal(t, time.Duration(0), sourceConfig.CacheTTL)
	assert.Equal(t, 400.0, config.ChartRendererConfig().Width)
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		errText string
	}{
		{name: "bad yaml", content: "data: [", errText: "failed to parse config"},
		{name: "bad duration", content: "http:\n  timeout: soon\n", errText: "failed to parse config"},
		{name: "bad scheme", content: "data:\n  debt_url: ftp://example.com/debt.csv\n", errText: "unsupported scheme"},
		{name: "empty addr", content: "server:\n  addr: \"\"\n", errText: "server.addr"},
		{name: "zoom out of range", content: "map:\n  zoom: 25\n", errText: "map.zoom"},
		{name: "negative size", content: "chart:\n  height: -1\n", errText: "chart"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errText)
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvInfrastructureURL, "file:///srv/infra.csv")
	t.Setenv(EnvDebtURL, "https://example.org/debt.csv")
	t.Setenv(EnvAddr, ":7070")
	t.Setenv(EnvCacheTTL, "1m")

	config, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "file:///srv/infra.csv", config.Data.InfrastructureURL)
	assert.Equal(t, "https://example.org/debt.csv", config.Data.DebtURL)
	assert.Equal(t, ":7070", config.Server.Addr)
	assert.Equal(t, time.Minute, config.HTTP.CacheTTL.Std())
}

func TestLoad_InvalidEnvTTL(t *testing.T) {
	t.Setenv(EnvCacheTTL, "forever")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvCacheTTL)
}

func TestDuration_MarshalYAML(t *testing.T) {
	data, err := yaml.Marshal(DefaultConfig().HTTP)
	require.NoError(t, err)
	assert.Contains(t, string(data), "timeout: 30s")
	assert.Contains(t, string(data), "cache_ttl: 10m0s")
}
