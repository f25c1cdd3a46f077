// Package config provides configuration loading and structs for the kotae server and CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug      bool             `yaml:"debug"`
	Server     ServerConfig     `yaml:"server"`
	Completion CompletionConfig `yaml:"completion"`
	Knowledge  KnowledgeConfig  `yaml:"knowledge"`
	Prompt     PromptConfig     `yaml:"prompt"`
	Dataset    DatasetConfig    `yaml:"dataset"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// CompletionConfig selects and configures the language model service.
type CompletionConfig struct {
	Provider string        `yaml:"provider"` // ollama | openai
	BaseURL  string        `yaml:"base_url"`
	Model    string        `yaml:"model"`
	APIKey   string        `yaml:"api_key,omitempty"`
	Timeout  time.Duration `yaml:"timeout"`
	Validate bool          `yaml:"validate"`
}

// KnowledgeConfig points at the reference documents.
type KnowledgeConfig struct {
	Directory  string   `yaml:"directory"`
	Extensions []string `yaml:"extensions"`
	Cache      bool     `yaml:"cache"`
}

// PromptConfig locates the instruction template.
type PromptConfig struct {
	TemplatePath string `yaml:"template_path"`
}

// DatasetConfig chooses the deployment and where its fixture rows come from.
type DatasetConfig struct {
	Deployment   string `yaml:"deployment"` // manufacturing | sales
	Backend      string `yaml:"backend"`    // memory | sqlite
	DatabasePath string `yaml:"database_path"`
}

// Address returns host:port for the HTTP listener.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Load reads and parses the config file at path, applies defaults and environment overrides,
// and resolves relative paths against the config file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	if err := ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return nil, err
	}

	configDir := filepath.Dir(path)
	cfg.Knowledge.Directory = expandPath(cfg.Knowledge.Directory, configDir)
	cfg.Prompt.TemplatePath = expandPath(cfg.Prompt.TemplatePath, configDir)
	cfg.Dataset.DatabasePath = expandPath(cfg.Dataset.DatabasePath, configDir)

	return &cfg, nil
}

// Default returns the built-in configuration with environment overrides applied. Relative
// paths stay relative to the working directory.
func Default() (*Config, error) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	if err := ApplyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides cfg from the environment: OLLAMA_URL, OLLAMA_MODEL, OPENAI_API_KEY and PORT.
// lookup is usually os.LookupEnv.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup("OLLAMA_URL"); ok && v != "" && cfg.Completion.Provider == ProviderOllama {
		cfg.Completion.BaseURL = v
	}
	if v, ok := lookup("OLLAMA_MODEL"); ok && v != "" && cfg.Completion.Provider == ProviderOllama {
		cfg.Completion.Model = v
	}
	if v, ok := lookup("OPENAI_API_KEY"); ok && v != "" && cfg.Completion.APIKey == "" {
		cfg.Completion.APIKey = v
	}
	if v, ok := lookup("PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return fmt.Errorf("invalid PORT %q", v)
		}
		cfg.Server.Port = port
	}
	return nil
}

// Save writes the config to path. Used by "kotae config init".
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath makes path absolute. "~/" is relative to the home directory; any other relative
// path is relative to configDir.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
		return path
	}
	return filepath.Join(configDir, path)
}

// Validate reports settings that cannot be honored.
func (c *Config) Validate() error {
	switch c.Completion.Provider {
	case ProviderOllama, ProviderOpenAI:
	default:
		return fmt.Errorf("unknown completion provider %q", c.Completion.Provider)
	}
	switch c.Dataset.Backend {
	case BackendMemory, BackendSQLite:
	default:
		return fmt.Errorf("unknown dataset backend %q", c.Dataset.Backend)
	}
	if c.Completion.Timeout < 0 {
		return fmt.Errorf("completion timeout must not be negative")
	}
	return nil
}
