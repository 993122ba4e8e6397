package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/gridflow/lvplan/core/connection"
	"github.com/gridflow/lvplan/core/distribution"
	"github.com/gridflow/lvplan/core/metrics"
)

// Config aggregates the settings of every component.
type Config struct {
	Engine     distribution.Config `json:"engine"`
	Connection connection.Config   `json:"connection"`
	Metrics    metrics.Config      `json:"metrics"`
}

// Default returns a configuration with every section at its defaults.
func Default() *Config {
	cfg := &Config{}
	cfg.Engine.SetDefaults()
	cfg.Connection.SetDefaults()
	cfg.Metrics.SetDefaults()
	return cfg
}

// Load reads the configuration file, applies LV_ environment overrides,
// fills defaults and validates the result.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("LV_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "lv_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Engine.SetDefaults()
	cfg.Connection.SetDefaults()
	cfg.Metrics.SetDefaults()
	if err := cfg.Engine.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Connection.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
