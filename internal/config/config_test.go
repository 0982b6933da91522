package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alienxp03/arbiter/internal/gateway"
)

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config is invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "valid",
			mutate:  func(c *Config) {},
			wantErr: "",
		},
		{
			name: "too few agents",
			mutate: func(c *Config) {
				c.Agents = c.Agents[:2]
			},
			wantErr: "at least 3 agents",
		},
		{
			name: "duplicate agent id",
			mutate: func(c *Config) {
				c.Agents[1].ID = "alpha"
			},
			wantErr: "duplicate agent id",
		},
		{
			name: "unknown provider",
			mutate: func(c *Config) {
				c.Agents[0].Provider = "nonexistent"
			},
			wantErr: "unknown provider",
		},
		{
			name: "disabled provider",
			mutate: func(c *Config) {
				p := c.Providers["gemini"]
				p.Enabled = false
				c.Providers["gemini"] = p
			},
			wantErr: "disabled provider",
		},
		{
			name: "arbiter not in roster",
			mutate: func(c *Config) {
				c.Arbiter = "delta"
			},
			wantErr: "not a configured agent",
		},
		{
			name: "missing arbiter",
			mutate: func(c *Config) {
				c.Arbiter = ""
			},
			wantErr: "arbiter",
		},
		{
			name: "bad failure mode",
			mutate: func(c *Config) {
				p := c.Providers["claude"]
				p.FailureMode = "maybe"
				c.Providers["claude"] = p
			},
			wantErr: "invalid failure_mode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if len(cfg.Agents) != 3 || cfg.Arbiter != "alpha" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadFromMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
defaults:
  max_output_tokens: 512
agents:
  - id: one
    provider: mock
  - id: two
    provider: mock
  - id: three
    provider: mock
arbiter: two
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Defaults.MaxOutputTokens != 512 {
		t.Errorf("max_output_tokens = %d, want 512", cfg.Defaults.MaxOutputTokens)
	}
	if cfg.Arbiter != "two" {
		t.Errorf("arbiter = %s, want two", cfg.Arbiter)
	}
	// Providers absent from the file come from the defaults.
	if _, ok := cfg.Providers["claude"]; !ok {
		t.Error("default providers not merged in")
	}
}

func TestRoster(t *testing.T) {
	cfg := Default()
	cfg.Agents[0].Model = "opus-4.5"

	roster := cfg.Roster()
	if len(roster) != 3 {
		t.Fatalf("roster size = %d, want 3", len(roster))
	}
	if roster[0].Model != "opus-4.5" {
		t.Errorf("explicit model not kept: %s", roster[0].Model)
	}
	// Unset model falls back to the provider default.
	if roster[1].Model != cfg.Providers["gemini"].DefaultModel {
		t.Errorf("roster[1].Model = %s, want provider default", roster[1].Model)
	}
	want := []string{"alpha", "beta", "gamma"}
	for i, id := range want {
		if string(roster[i].ID) != id {
			t.Errorf("roster[%d] = %s, want %s", i, roster[i].ID, id)
		}
	}
}

func TestCreateRegistry(t *testing.T) {
	cfg := Default()
	registry, err := cfg.CreateRegistry()
	if err != nil {
		t.Fatalf("CreateRegistry() error = %v", err)
	}

	for _, name := range []string{"claude", "gemini", "openai", "mock"} {
		if !registry.Has(name) {
			t.Errorf("registry missing provider %s", name)
		}
	}
}

func TestCreateGatewayCarriesPolicies(t *testing.T) {
	cfg := Default()
	registry, err := cfg.CreateRegistry()
	if err != nil {
		t.Fatal(err)
	}

	gw := cfg.CreateGateway(registry)

	claude := gw.Policy("claude")
	if claude.FailureMode != gateway.FailSoft || claude.MaxOutputTokens != 8192 {
		t.Errorf("claude policy = %+v", claude)
	}
	openai := gw.Policy("openai")
	if openai.FailureMode != gateway.FailHard {
		t.Errorf("openai policy = %+v, want hard", openai)
	}
}

func TestGenerateExampleIsValidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(GenerateExample()), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("example config does not load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("example config is invalid: %v", err)
	}
}
