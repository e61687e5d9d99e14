package infra

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the whole application configuration. It is constructed once by
// LoadConfig and passed explicitly to the session factory; there is no
// process-wide implicit state. Sensitive values can be overridden through
// environment variables after the file is parsed.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	XTB struct {
		// Endpoint is the base websocket endpoint; the environment mode is
		// appended as the path, e.g. wss://ws.xtb.com/demo.
		Endpoint string `yaml:"endpoint"`
		Mode     string `yaml:"mode"` // "demo" or "real"
		UserID   string `yaml:"user_id"`
		Password string `yaml:"password"`
	} `yaml:"xtb"`

	Trading struct {
		Symbols []string `yaml:"symbols"`
		Volume  float64  `yaml:"volume"`
	} `yaml:"trading"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// LoadConfig reads and parses the configuration file, applies environment
// overrides and validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	overrideWithEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if c.XTB.Endpoint == "" ||
		(!strings.HasPrefix(c.XTB.Endpoint, "ws://") && !strings.HasPrefix(c.XTB.Endpoint, "wss://")) {
		return fmt.Errorf("invalid websocket endpoint: %s", c.XTB.Endpoint)
	}

	switch c.XTB.Mode {
	case "demo", "real":
	default:
		return fmt.Errorf("mode must be \"demo\" or \"real\", got %q", c.XTB.Mode)
	}

	if len(c.Trading.Symbols) > 0 && c.Trading.Volume <= 0 {
		return fmt.Errorf("trading volume must be positive, got %v", c.Trading.Volume)
	}

	return nil
}

// overrideWithEnv replaces config values with environment variables where
// present. Environment always wins over the file for secrets.
func overrideWithEnv(cfg *Config) {
	if cfg.XTB.Password != "" {
		slog.Warn("account password found in config file; prefer the XTB_PASSWORD environment variable")
	}

	if id := os.Getenv("XTB_USER_ID"); id != "" {
		cfg.XTB.UserID = id
	}
	if pw := os.Getenv("XTB_PASSWORD"); pw != "" {
		cfg.XTB.Password = pw
	}
	if mode := os.Getenv("XTB_MODE"); mode != "" {
		cfg.XTB.Mode = mode
	}
}
