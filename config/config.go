// Package config loads the rosterd configuration file and the roster
// datasets it points at.
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

	"github.com/transitops/rosterd/core/metrics"
	"github.com/transitops/rosterd/core/multiday"
	"github.com/transitops/rosterd/core/runlog"
	"github.com/transitops/rosterd/infra/notify"
)

// Config is the root configuration of rosterd.
type Config struct {
	RunLog   runlog.Config   `json:"runlog"`
	Metrics  metrics.Config  `json:"metrics"`
	Notify   notify.Config   `json:"notify"`
	MultiDay multiday.Config `json:"multiday"`
	Data     DataConfig      `json:"data"`
	Logging  LoggingConfig   `json:"logging"`
}

// LoggingConfig tunes the process logger.
type LoggingConfig struct {
	// Level is one of zerolog's level names; empty means "info".
	Level string `json:"level"`
}

// SetDefaults applies sane defaults.
func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
}

// Load reads the configuration file at path. YAML and JSON are supported,
// selected by extension. ROSTERD_ environment variables override file values,
// with "__" as the nesting separator (ROSTERD_RUNLOG__PATH=...).
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
	if err := k.Load(env.Provider("ROSTERD_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "rosterd_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.RunLog.SetDefaults()
	cfg.MultiDay.SetDefaults()
	cfg.Notify.SetDefaults()
	cfg.Logging.SetDefaults()
	if err := cfg.RunLog.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
