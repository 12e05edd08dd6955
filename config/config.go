package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var log = logrus.New()

// Config carries everything the node needs at startup. Values come from an
// optional YAML file; command line flags override file values.
type Config struct {
	configFile string

	Gossip struct {
		// Period between self-originated announcements, in seconds.
		PeriodSeconds uint64 `yaml:"period" validate:"required,gt=0"`
	} `yaml:"gossip"`

	Network struct {
		// Port to listen on. The node always binds the loopback interface.
		Port uint16 `yaml:"port" validate:"required"`
		// Optional seed peer to dial at startup, as "ip:port".
		Connect string `yaml:"connect" validate:"omitempty,hostname_port"`
	} `yaml:"network"`
}

// NewEmptyConfig returns a configuration with no values set. Validate rejects
// it until a period and a port are supplied.
func NewEmptyConfig(configFile string) *Config {
	cfg := &Config{}
	cfg.configFile = configFile
	return cfg
}

func NewConfigFromFile(configFile string) (*Config, error) {
	cfg := NewEmptyConfig(configFile)
	if err := cfg.Load(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the startup invariants: a positive period, a usable port
// and a well-formed seed address if one is set.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Period returns the gossip period as a duration.
func (c *Config) Period() time.Duration {
	return time.Duration(c.Gossip.PeriodSeconds) * time.Second
}

// ListenAddr is the loopback endpoint the node binds.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("127.0.0.1:%d", c.Network.Port)
}

// Save writes the configuration to its file.
func (c *Config) Save() error {
	log.Infof("Saving config to %s", c.configFile)

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(c.configFile, data, 0644)
}

func (c *Config) Load() error {
	log.Infof("Loading config from %s", c.configFile)

	data, err := os.ReadFile(c.configFile)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return err
	}

	return nil
}
