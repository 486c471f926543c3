// Package config loads server settings from YAML over built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/chronicblondiee/mcp-sandbox/internal/security"
)

// Config describes everything the server binary can be told at startup.
type Config struct {
	Server struct {
		Host      string `yaml:"host"`
		Port      int    `yaml:"port"`
		Transport string `yaml:"transport"`
	} `yaml:"server"`
	Security struct {
		MaxCommandLength int      `yaml:"max_command_length"`
		TimeoutSeconds   int      `yaml:"timeout_seconds"`
		BlockedCommands  []string `yaml:"blocked_commands"`
		BlockedPatterns  []string `yaml:"blocked_patterns"`
		DangerousChars   []string `yaml:"dangerous_chars"`
		EnvPassthrough   []string `yaml:"env_passthrough"`
		SafeCommands     []string `yaml:"safe_commands"`
	} `yaml:"security"`
	Audit struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"audit"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Default returns the configuration used when no file is given. The
// security section mirrors the baseline policy so a config file can
// override any single field of it.
func Default() Config {
	var cfg Config
	policy := security.DefaultPolicy()

	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 8000
	cfg.Server.Transport = "http"

	cfg.Security.MaxCommandLength = policy.MaxCommandLength
	cfg.Security.TimeoutSeconds = int(policy.Timeout / time.Second)
	cfg.Security.BlockedCommands = policy.BlockedCommands
	cfg.Security.BlockedPatterns = policy.BlockedPatterns
	cfg.Security.DangerousChars = policy.DangerousChars
	cfg.Security.EnvPassthrough = policy.EnvPassthrough
	cfg.Security.SafeCommands = policy.SafeCommands

	cfg.Audit.Enabled = false
	cfg.Audit.Path = "audit.db"

	cfg.Log.Level = "info"
	return cfg
}

// Load reads a YAML config from path on top of the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if len(data) == 0 {
		return cfg, errors.New("config file is empty")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	if c.Server.Transport != "http" && c.Server.Transport != "stdio" {
		return fmt.Errorf("unknown transport %q (want http or stdio)", c.Server.Transport)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Server.Port)
	}
	if c.Security.MaxCommandLength < 1 {
		return errors.New("max_command_length must be positive")
	}
	if c.Security.TimeoutSeconds < 1 {
		return errors.New("timeout_seconds must be positive")
	}
	return nil
}

// Policy converts the security section into the policy the runner enforces.
func (c Config) Policy() *security.Policy {
	return &security.Policy{
		MaxCommandLength: c.Security.MaxCommandLength,
		Timeout:          time.Duration(c.Security.TimeoutSeconds) * time.Second,
		BlockedCommands:  c.Security.BlockedCommands,
		BlockedPatterns:  c.Security.BlockedPatterns,
		DangerousChars:   c.Security.DangerousChars,
		EnvPassthrough:   c.Security.EnvPassthrough,
		SafeCommands:     c.Security.SafeCommands,
	}
}
