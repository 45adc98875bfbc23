package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultLocalPort    = 33066
	defaultConnectDelay = time.Second
	defaultAWSBinary    = "aws"
)

// Config holds the application configuration
type Config struct {
	Region       string
	Profile      string
	LocalPort    int
	ConnectDelay time.Duration
	AWSBinary    string
	CheckUpdates bool
}

// fileConfig is the on-disk shape. Unset keys keep their defaults.
type fileConfig struct {
	Region       string `yaml:"region"`
	Profile      string `yaml:"profile"`
	LocalPort    int    `yaml:"local_port"`
	ConnectDelay string `yaml:"connect_delay"`
	AWSBinary    string `yaml:"aws_binary"`
	CheckUpdates *bool  `yaml:"check_updates"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LocalPort:    defaultLocalPort,
		ConnectDelay: defaultConnectDelay,
		AWSBinary:    defaultAWSBinary,
		CheckUpdates: true,
	}
}

// DefaultPath returns the path to the config file
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".ecs-connect", "config.yaml"), nil
}

// LoadConfig loads the configuration from path, then applies the
// environment. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if region := GetDefaultRegion(); region != "" {
		cfg.Region = region
	}
	if profile, ok := os.LookupEnv("AWS_PROFILE"); ok && profile != "" {
		cfg.Profile = profile
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if fc.Region != "" {
		c.Region = fc.Region
	}
	if fc.Profile != "" {
		c.Profile = fc.Profile
	}
	if fc.LocalPort != 0 {
		if fc.LocalPort < 1 || fc.LocalPort > 65535 {
			return fmt.Errorf("invalid local_port %d in %s", fc.LocalPort, path)
		}
		c.LocalPort = fc.LocalPort
	}
	if fc.ConnectDelay != "" {
		d, err := time.ParseDuration(fc.ConnectDelay)
		if err != nil {
			return fmt.Errorf("invalid connect_delay in %s: %w", path, err)
		}
		c.ConnectDelay = d
	}
	if fc.AWSBinary != "" {
		c.AWSBinary = fc.AWSBinary
	}
	if fc.CheckUpdates != nil {
		c.CheckUpdates = *fc.CheckUpdates
	}
	return nil
}

// GetDefaultRegion returns the region set in the environment, or "" to let
// the SDK resolve it from the shared config.
func GetDefaultRegion() string {
	if region, ok := os.LookupEnv("AWS_REGION"); ok && region != "" {
		return region
	}
	if region, ok := os.LookupEnv("AWS_DEFAULT_REGION"); ok && region != "" {
		return region
	}
	return ""
}
