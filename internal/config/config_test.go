package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kination/pipelines-console/internal/links"
	"github.com/kination/pipelines-console/internal/overview"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.CacheSize, cfg.CacheSize)
	assert.Equal(t, def.TailLines, cfg.TailLines)
	assert.Equal(t, def.RefreshInterval, cfg.RefreshInterval)
}

func TestLoad_File(t *testing.T) {
	cfg, err := Load("testdata/config.yaml")
	require.NoError(t, err)

	assert.Equal(t, "ci", cfg.Namespace)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 64, cfg.CacheSize)
	assert.Equal(t, int64(50), cfg.TailLines)
	refresh, err := cfg.Refresh()
	require.NoError(t, err)
	assert.Equal(t, time.Minute, refresh)
	assert.Equal(t, ":8080", cfg.MetricsAddr)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("PIPELINES_NAMESPACE", "prod")
	t.Setenv("PIPELINES_CACHE_SIZE", "8")
	t.Setenv("PIPELINES_REFRESH_INTERVAL", "5m")

	cfg, err := Load("testdata/config.yaml")
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Namespace)
	assert.Equal(t, 8, cfg.CacheSize)
	refresh, err := cfg.Refresh()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, refresh)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load("testdata/missing.yaml")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cacheSize: [1, 2"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)

	t.Setenv("PIPELINES_TAIL_LINES", "many")
	_, err = Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "trace" }, wantErr: true},
		{name: "negative cache", mutate: func(c *Config) { c.CacheSize = -1 }, wantErr: true},
		{name: "negative tail", mutate: func(c *Config) { c.TailLines = -1 }, wantErr: true},
		{name: "refresh off", mutate: func(c *Config) { c.RefreshInterval = overview.OffKey }},
		{name: "refresh in days", mutate: func(c *Config) { c.RefreshInterval = "1d" }},
		{name: "bad refresh", mutate: func(c *Config) { c.RefreshInterval = "soon" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRefresh(t *testing.T) {
	cfg := Default()

	cfg.RefreshInterval = "1d"
	d, err := cfg.Refresh()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, d)

	cfg.RefreshInterval = overview.OffKey
	d, err = cfg.Refresh()
	require.NoError(t, err)
	assert.Zero(t, d)
}

func TestResolvedNamespace(t *testing.T) {
	tests := []struct {
		name      string
		namespace string
		basePath  string
		expected  string
	}{
		{name: "plain name", namespace: "team-a", basePath: "/", expected: "team-a"},
		{name: "empty", namespace: "", basePath: "/", expected: ""},
		{name: "all namespaces key", namespace: links.AllNamespacesKey, basePath: "/", expected: ""},
		{name: "console url", namespace: "https://console.example.com/k8s/ns/team-b/tekton.dev~v1~Pipeline?rowFilter=x", basePath: "/", expected: "team-b"},
		{name: "console path with base path", namespace: "/console/k8s/cluster/projects/team-c", basePath: "/console/", expected: "team-c"},
		{name: "all namespaces url", namespace: "https://console.example.com/k8s/all-namespaces/pipelines", basePath: "/", expected: ""},
		{name: "non namespaced url", namespace: "https://console.example.com/dashboards", basePath: "/", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Namespace = tt.namespace
			cfg.BasePath = tt.basePath
			assert.Equal(t, tt.expected, cfg.ResolvedNamespace())
		})
	}
}
