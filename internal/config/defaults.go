package config

import "time"

// Provider names.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// Dataset backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3001
	}
	if cfg.Server.AllowedOrigins == nil {
		cfg.Server.AllowedOrigins = []string{"*"}
	}
	if cfg.Completion.Provider == "" {
		cfg.Completion.Provider = ProviderOllama
	}
	if cfg.Completion.BaseURL == "" && cfg.Completion.Provider == ProviderOllama {
		cfg.Completion.BaseURL = "http://localhost:11434"
	}
	if cfg.Completion.Model == "" {
		switch cfg.Completion.Provider {
		case ProviderOllama:
			cfg.Completion.Model = "llama3"
		case ProviderOpenAI:
			cfg.Completion.Model = "gpt-4o-mini"
		}
	}
	if cfg.Completion.Timeout == 0 {
		cfg.Completion.Timeout = 120 * time.Second
	}
	if cfg.Knowledge.Directory == "" {
		cfg.Knowledge.Directory = "./knowledge"
	}
	if cfg.Knowledge.Extensions == nil {
		cfg.Knowledge.Extensions = []string{".md"}
	}
	if cfg.Prompt.TemplatePath == "" {
		cfg.Prompt.TemplatePath = "./prompts/chart_prompt.txt"
	}
	if cfg.Dataset.Deployment == "" {
		cfg.Dataset.Deployment = "manufacturing"
	}
	if cfg.Dataset.Backend == "" {
		cfg.Dataset.Backend = BackendMemory
	}
	if cfg.Dataset.DatabasePath == "" {
		cfg.Dataset.DatabasePath = "./data/fixtures.db"
	}
}
