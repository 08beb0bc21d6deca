// ABOUTME: Configuration loading for the fake agent
// ABOUTME: Loads TOML config with environment variable expansion

package main

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Hub      HubConfig      `toml:"hub"`
	Agent    AgentConfig    `toml:"agent"`
	Behavior BehaviorConfig `toml:"behavior"`
}

type HubConfig struct {
	Addr string `toml:"addr"`
}

type AgentConfig struct {
	Name string `toml:"name"`
	Type string `toml:"type"`
}

// BehaviorConfig drives what the agent does once connected. Intervals are
// duration strings; an empty chat_interval disables chatter.
type BehaviorConfig struct {
	HeartbeatInterval string `toml:"heartbeat_interval"`
	ChatInterval      string `toml:"chat_interval"`
	ChatRecipient     string `toml:"chat_recipient"`
	Echo              bool   `toml:"echo"`
}

// Load reads config from the given path, expanding environment variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables (${VAR} syntax)
	expanded := expandEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(expanded, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR} with environment variable values.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		return os.Getenv(varName)
	})
}

// Validate checks that required config fields are present and valid.
func (c *Config) Validate() error {
	if c.Hub.Addr == "" {
		return fmt.Errorf("hub.addr is required")
	}
	if c.Behavior.HeartbeatInterval != "" {
		if _, err := time.ParseDuration(c.Behavior.HeartbeatInterval); err != nil {
			return fmt.Errorf("behavior.heartbeat_interval is not a valid duration: %w", err)
		}
	}
	if c.Behavior.ChatInterval != "" {
		if _, err := time.ParseDuration(c.Behavior.ChatInterval); err != nil {
			return fmt.Errorf("behavior.chat_interval is not a valid duration: %w", err)
		}
	}
	return nil
}
