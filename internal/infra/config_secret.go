package infra

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SecretConfig matches the structure of secrets/demo.yaml and secrets/real.yaml.
// Credentials kept there never enter the main config file.
type SecretConfig struct {
	XTB struct {
		UserID   string `yaml:"user_id"`
		Password string `yaml:"password"`
	} `yaml:"xtb"`
}

// LoadSecretConfig loads account credentials from a separate yaml file.
// A missing file is an error (fail fast), callers decide whether the file is
// optional for their mode.
func LoadSecretConfig(path string) (*SecretConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read secret config: %w", err)
	}

	var cfg SecretConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse secret config: %w", err)
	}

	return &cfg, nil
}
