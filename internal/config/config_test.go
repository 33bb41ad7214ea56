package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := New()
	if cfg.LLM.Model != "gpt-4o-mini" {
		t.Errorf("wrong default model: %q", cfg.LLM.Model)
	}
	if cfg.LLM.MaxTokens != 4096 {
		t.Errorf("wrong default max tokens: %d", cfg.LLM.MaxTokens)
	}
	if cfg.API.UserAgent != "Nube Agent" {
		t.Errorf("wrong default user agent: %q", cfg.API.UserAgent)
	}
	if cfg.Telemetry.Protocol != "noop" {
		t.Errorf("wrong default telemetry protocol: %q", cfg.Telemetry.Protocol)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nube.toml")
	content := `
[llm]
model = "gpt-4o"
max_tokens = 8192

[api]
user_agent = "Test Agent (me@example.com)"

[sensitivity]
sensitive = ["update_product"]
safe = ["delete_coupon"]
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.LLM.Model != "gpt-4o" {
		t.Errorf("wrong model: %q", cfg.LLM.Model)
	}
	if cfg.LLM.MaxTokens != 8192 {
		t.Errorf("wrong max tokens: %d", cfg.LLM.MaxTokens)
	}
	if cfg.API.UserAgent != "Test Agent (me@example.com)" {
		t.Errorf("wrong user agent: %q", cfg.API.UserAgent)
	}
	if len(cfg.Sensitivity.Sensitive) != 1 || cfg.Sensitivity.Sensitive[0] != "update_product" {
		t.Errorf("wrong sensitive overrides: %v", cfg.Sensitivity.Sensitive)
	}
	if len(cfg.Sensitivity.Safe) != 1 || cfg.Sensitivity.Safe[0] != "delete_coupon" {
		t.Errorf("wrong safe overrides: %v", cfg.Sensitivity.Safe)
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	if _, err := LoadFile("/nonexistent/nube.toml"); err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("NUBE_MODEL", "gpt-4.1")
	t.Setenv("NUBE_BASE_URL", "http://localhost:8080/v1")
	t.Setenv("USER_AGENT", "Env Agent")

	cfg := New()
	cfg.ApplyEnv()
	if cfg.LLM.Model != "gpt-4.1" {
		t.Errorf("env model not applied: %q", cfg.LLM.Model)
	}
	if cfg.LLM.BaseURL != "http://localhost:8080/v1" {
		t.Errorf("env base url not applied: %q", cfg.LLM.BaseURL)
	}
	if cfg.API.UserAgent != "Env Agent" {
		t.Errorf("env user agent not applied: %q", cfg.API.UserAgent)
	}
}

func TestCredentialsValidate(t *testing.T) {
	cr := Credentials{OpenAIKey: "k", AccessToken: "t", StoreID: "1"}
	if err := cr.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	cr = Credentials{OpenAIKey: "k"}
	err := cr.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "TIENDANUBE_ACCESS_TOKEN") || !strings.Contains(msg, "TIENDANUBE_STORE_ID") {
		t.Errorf("error should name missing variables: %q", msg)
	}
	if strings.Contains(msg, "OPENAI_API_KEY") {
		t.Errorf("error should not name present variables: %q", msg)
	}
}
