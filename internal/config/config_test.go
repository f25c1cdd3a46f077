package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func noEnv(string) (string, bool) { return "", false }

func envOf(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("OLLAMA_URL", "")
	t.Setenv("OLLAMA_MODEL", "")
	t.Setenv("PORT", "")
	path := writeConfig(t, `
server:
  host: "127.0.0.1"
  port: 9000
completion:
  model: "llama3.1"
  timeout: 30s
  validate: true
dataset:
  deployment: sales
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Completion.Model != "llama3.1" || cfg.Completion.Timeout != 30*time.Second || !cfg.Completion.Validate {
		t.Errorf("unexpected completion config: %+v", cfg.Completion)
	}
	if cfg.Completion.BaseURL != "http://localhost:11434" {
		t.Errorf("base url = %s", cfg.Completion.BaseURL)
	}
	if cfg.Dataset.Deployment != "sales" || cfg.Dataset.Backend != BackendMemory {
		t.Errorf("unexpected dataset config: %+v", cfg.Dataset)
	}
	if cfg.Debug {
		t.Error("debug should default to false when unset")
	}
}

func TestLoad_RelativePathsFollowConfigDir(t *testing.T) {
	path := writeConfig(t, `
knowledge:
  directory: "./docs"
prompt:
  template_path: "prompts/custom.txt"
dataset:
  database_path: "/var/lib/kotae/fixtures.db"
`)
	dir := filepath.Dir(path)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "docs"); cfg.Knowledge.Directory != want {
		t.Errorf("knowledge dir = %s, want %s", cfg.Knowledge.Directory, want)
	}
	if want := filepath.Join(dir, "prompts", "custom.txt"); cfg.Prompt.TemplatePath != want {
		t.Errorf("template = %s, want %s", cfg.Prompt.TemplatePath, want)
	}
	if cfg.Dataset.DatabasePath != "/var/lib/kotae/fixtures.db" {
		t.Errorf("absolute path changed: %s", cfg.Dataset.DatabasePath)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := Load(writeConfig(t, "server: [")); err == nil {
		t.Error("expected error for invalid yaml")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	tests := []struct {
		name string
		got  any
		want any
	}{
		{"host", cfg.Server.Host, "localhost"},
		{"port", cfg.Server.Port, 3001},
		{"provider", cfg.Completion.Provider, ProviderOllama},
		{"base url", cfg.Completion.BaseURL, "http://localhost:11434"},
		{"model", cfg.Completion.Model, "llama3"},
		{"timeout", cfg.Completion.Timeout, 120 * time.Second},
		{"knowledge dir", cfg.Knowledge.Directory, "./knowledge"},
		{"template", cfg.Prompt.TemplatePath, "./prompts/chart_prompt.txt"},
		{"deployment", cfg.Dataset.Deployment, "manufacturing"},
		{"backend", cfg.Dataset.Backend, BackendMemory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
	if len(cfg.Knowledge.Extensions) != 1 || cfg.Knowledge.Extensions[0] != ".md" {
		t.Errorf("extensions = %v", cfg.Knowledge.Extensions)
	}
	if cfg.Knowledge.Cache || cfg.Completion.Validate {
		t.Error("cache and validate must default to off")
	}
}

func TestApplyDefaults_OpenAI(t *testing.T) {
	cfg := &Config{Completion: CompletionConfig{Provider: ProviderOpenAI}}
	ApplyDefaults(cfg)
	if cfg.Completion.BaseURL != "" {
		t.Errorf("openai base url should stay empty, got %s", cfg.Completion.BaseURL)
	}
	if cfg.Completion.Model != "gpt-4o-mini" {
		t.Errorf("model = %s", cfg.Completion.Model)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Run("overrides", func(t *testing.T) {
		cfg := &Config{}
		ApplyDefaults(cfg)
		err := ApplyEnv(cfg, envOf(map[string]string{
			"OLLAMA_URL":     "http://gpu-box:11434",
			"OLLAMA_MODEL":   "mistral",
			"OPENAI_API_KEY": "sk-1",
			"PORT":           "4000",
		}))
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Completion.BaseURL != "http://gpu-box:11434" || cfg.Completion.Model != "mistral" {
			t.Errorf("completion = %+v", cfg.Completion)
		}
		if cfg.Completion.APIKey != "sk-1" || cfg.Server.Port != 4000 {
			t.Errorf("api key %q port %d", cfg.Completion.APIKey, cfg.Server.Port)
		}
	})
	t.Run("ollama vars ignored for openai", func(t *testing.T) {
		cfg := &Config{Completion: CompletionConfig{Provider: ProviderOpenAI}}
		ApplyDefaults(cfg)
		if err := ApplyEnv(cfg, envOf(map[string]string{"OLLAMA_MODEL": "mistral"})); err != nil {
			t.Fatal(err)
		}
		if cfg.Completion.Model != "gpt-4o-mini" {
			t.Errorf("model = %s", cfg.Completion.Model)
		}
	})
	t.Run("invalid port", func(t *testing.T) {
		cfg := &Config{}
		if err := ApplyEnv(cfg, envOf(map[string]string{"PORT": "http"})); err == nil {
			t.Error("expected error for invalid PORT")
		}
	})
	t.Run("nothing set", func(t *testing.T) {
		cfg := &Config{}
		ApplyDefaults(cfg)
		before := *cfg
		if err := ApplyEnv(cfg, noEnv); err != nil {
			t.Fatal(err)
		}
		if cfg.Server.Port != before.Server.Port || cfg.Completion != before.Completion {
			t.Error("config changed without environment")
		}
	})
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	cfg.Completion.Provider = "anthropic"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown provider")
	}
	cfg.Completion.Provider = ProviderOllama
	cfg.Dataset.Backend = "postgres"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "saved.yaml")
	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.Server.Port = 9090
	cfg.Completion.Timeout = 45 * time.Second
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORT", "")
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Server.Port != 9090 {
		t.Errorf("loaded port: got %d", loaded.Server.Port)
	}
	if loaded.Completion.Timeout != 45*time.Second {
		t.Errorf("loaded timeout: got %s", loaded.Completion.Timeout)
	}
}
