package core

import (
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigFile = "quiz.config.yml"
	DefaultPort       = 9000
)

type Config struct {
	Port         int    `yaml:"port"`
	ViewsDir     string `yaml:"viewsDir"`
	PublicDir    string `yaml:"publicDir"`
	OutputDir    string `yaml:"outputDir"`
	CacheEnabled bool   `yaml:"cache"`
	DebugHeaders bool   `yaml:"debugHeaders"`
	DebugLogs    bool   `yaml:"debugLogs"`
}

func DefaultConfig() Config {
	return Config{
		Port:      DefaultPort,
		ViewsDir:  "views",
		PublicDir: "public",
		OutputDir: "./cache",
	}
}

// LoadConfig reads path and fills every unset field from DefaultConfig.
// It never fails: a missing file yields the defaults.
func LoadConfig(path string) Config {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultConfig()
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logrus.WithError(err).WithField("path", path).Warn("invalid config file, using defaults")
		return DefaultConfig()
	}

	def := DefaultConfig()
	if cfg.Port == 0 {
		cfg.Port = def.Port
	}
	if cfg.ViewsDir == "" {
		cfg.ViewsDir = def.ViewsDir
	}
	if cfg.PublicDir == "" {
		cfg.PublicDir = def.PublicDir
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = def.OutputDir
	}

	return cfg
}
