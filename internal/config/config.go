// Package config loads the settings shared by the CLI and the manager.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/kination/pipelines-console/internal/links"
	"github.com/kination/pipelines-console/internal/overview"
)

// EnvPrefix prefixes every environment override, e.g. PIPELINES_NAMESPACE.
const EnvPrefix = "PIPELINES"

type Config struct {
	// Namespace is a namespace name, a console URL or path, or links.AllNamespacesKey.
	// Empty means every namespace.
	Namespace       string `yaml:"namespace" envconfig:"NAMESPACE"`
	BasePath        string `yaml:"basePath" envconfig:"BASE_PATH"`
	Kubeconfig      string `yaml:"kubeconfig" envconfig:"KUBECONFIG"`
	LogLevel        string `yaml:"logLevel" envconfig:"LOG_LEVEL"`
	Development     bool   `yaml:"development" envconfig:"DEVELOPMENT"`
	CacheSize       int    `yaml:"cacheSize" envconfig:"CACHE_SIZE"`
	TailLines       int64  `yaml:"tailLines" envconfig:"TAIL_LINES"`
	// RefreshInterval is an overview interval key such as 30s, 1d or OFF_KEY.
	RefreshInterval string `yaml:"refreshInterval" envconfig:"REFRESH_INTERVAL"`
	MetricsAddr     string `yaml:"metricsAddr" envconfig:"METRICS_ADDR"`
	ProbeAddr       string `yaml:"probeAddr" envconfig:"PROBE_ADDR"`
	LeaderElection  bool   `yaml:"leaderElection" envconfig:"LEADER_ELECTION"`
}

func Default() Config {
	return Config{
		BasePath:        "/",
		LogLevel:        "info",
		CacheSize:       512,
		TailLines:       20,
		RefreshInterval: "30s",
		MetricsAddr:     ":8080",
		ProbeAddr:       ":8081",
	}
}

// Load starts from Default, applies the YAML file at path (if path is not
// empty) and then the PIPELINES_* environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config error: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("yaml parse error: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return cfg, fmt.Errorf("env config error: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "error":
	default:
		return fmt.Errorf("unsupported log level %q", c.LogLevel)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cacheSize must not be negative, got %d", c.CacheSize)
	}
	if c.TailLines < 0 {
		return fmt.Errorf("tailLines must not be negative, got %d", c.TailLines)
	}
	if _, err := c.Refresh(); err != nil {
		return err
	}
	return nil
}

// Refresh returns the refresh interval as a duration; 0 means refresh is off.
func (c Config) Refresh() (time.Duration, error) {
	return overview.ParseInterval(c.RefreshInterval)
}

// ResolvedNamespace returns the namespace to work in, or "" for every
// namespace. Console URLs and paths are resolved against BasePath.
func (c Config) ResolvedNamespace() string {
	ns := strings.TrimSpace(c.Namespace)
	if ns == links.AllNamespacesKey {
		return ""
	}
	if !strings.Contains(ns, "/") {
		return ns
	}

	path := ns
	if u, err := url.Parse(ns); err == nil && u.Path != "" {
		path = u.Path
	}
	ns = links.GetNamespace(c.BasePath, path)
	if ns == links.AllNamespacesKey {
		return ""
	}
	return ns
}
