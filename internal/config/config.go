// Package config handles application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/alienxp03/arbiter/internal/core"
	"github.com/alienxp03/arbiter/internal/gateway"
	"github.com/alienxp03/arbiter/provider"
	"github.com/alienxp03/arbiter/provider/claude"
	"github.com/alienxp03/arbiter/provider/gemini"
	"github.com/alienxp03/arbiter/provider/generic"
	"github.com/alienxp03/arbiter/provider/openai"
)

// Config represents the application configuration.
type Config struct {
	Defaults  DefaultsConfig            `yaml:"defaults"`
	Agents    []AgentConfig             `yaml:"agents"`
	Arbiter   string                    `yaml:"arbiter"`
	Providers map[string]ProviderConfig `yaml:"providers"`
	Server    ServerConfig              `yaml:"server,omitempty"`
}

// ServerConfig holds server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// DefaultsConfig holds default debate settings.
type DefaultsConfig struct {
	// MaxOutputTokens is the token budget requested per agent call. The
	// gateway clamps it to each provider's ceiling.
	MaxOutputTokens int `yaml:"max_output_tokens"`

	// ExcerptLimit caps how much of a prior answer is quoted back in
	// Round 2 and Round 3 prompts. Zero disables truncation.
	ExcerptLimit int `yaml:"excerpt_limit,omitempty"`

	// SingleLineAnswers switches final-answer extraction to the strict
	// single-line mode. Leave false for questions whose answers may
	// span several lines (code, proofs, lists).
	SingleLineAnswers bool `yaml:"single_line_answers,omitempty"`
}

// AgentConfig binds one debate slot to a provider and model.
type AgentConfig struct {
	ID       string `yaml:"id"`
	Provider string `yaml:"provider"`
	Model    string `yaml:"model,omitempty"`
}

// ProviderConfig holds provider-specific settings.
type ProviderConfig struct {
	Command      string        `yaml:"command"`
	Args         []string      `yaml:"args,omitempty"`
	DefaultModel string        `yaml:"default_model,omitempty"`
	Models       []string      `yaml:"models,omitempty"`
	Timeout      time.Duration `yaml:"timeout,omitempty"`
	MaxRetries   int           `yaml:"max_retries,omitempty"`

	// MaxOutputTokens is this provider's hard ceiling on generated
	// tokens. The gateway never requests more than this.
	MaxOutputTokens int `yaml:"max_output_tokens,omitempty"`

	// FailureMode is "soft" (absorb failures with a fallback payload)
	// or "hard" (a failure aborts the whole debate).
	FailureMode string `yaml:"failure_mode,omitempty"`

	Enabled bool `yaml:"enabled"`
}

// Default returns the default configuration: three agent slots on
// different providers, the first doubling as the arbiter.
func Default() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			MaxOutputTokens: 2048,
			ExcerptLimit:    4000,
		},
		Agents: []AgentConfig{
			{ID: "alpha", Provider: "claude"},
			{ID: "beta", Provider: "gemini"},
			{ID: "gamma", Provider: "openai"},
		},
		Arbiter: "alpha",
		Providers: map[string]ProviderConfig{
			"claude": {
				Command:         "claude",
				Args:            []string{"--print"},
				DefaultModel:    "sonnet-4.5",
				Models:          []string{"opus-4.5", "sonnet-4.5", "haiku-4.5"},
				Timeout:         5 * time.Minute,
				MaxRetries:      2,
				MaxOutputTokens: 8192,
				FailureMode:     string(gateway.FailSoft),
				Enabled:         true,
			},
			"gemini": {
				Command:         "gemini",
				DefaultModel:    "gemini-3-flash-preview",
				Models:          []string{"gemini-3-pro-preview", "gemini-3-flash-preview"},
				Timeout:         5 * time.Minute,
				MaxRetries:      2,
				MaxOutputTokens: 8192,
				FailureMode:     string(gateway.FailSoft),
				Enabled:         true,
			},
			"openai": {
				Command:         "codex",
				DefaultModel:    "gpt-5.2-codex",
				Models:          []string{"gpt-5.2-codex", "gpt-5.2"},
				Timeout:         5 * time.Minute,
				MaxRetries:      2,
				MaxOutputTokens: 4096,
				FailureMode:     string(gateway.FailHard),
				Enabled:         true,
			},
			"mock": {
				Timeout:         1 * time.Minute,
				MaxOutputTokens: 4096,
				FailureMode:     string(gateway.FailSoft),
				Enabled:         true,
			},
		},
		Server: ServerConfig{
			Port: 8183,
		},
	}
}

// Load loads configuration from the default path.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from a specific path, merging it over
// the defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// No config file, proceed with defaults
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Merge with defaults for any missing providers
	defaultCfg := Default()
	for name, defaultProvider := range defaultCfg.Providers {
		if _, exists := cfg.Providers[name]; !exists {
			cfg.Providers[name] = defaultProvider
		}
	}

	// Apply .env overrides if file exists
	if env, err := LoadEnv(".env"); err == nil {
		ApplyEnvOverrides(cfg, env)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the debate roster against the invariants the engine
// relies on.
func (c *Config) Validate() error {
	if len(c.Agents) < 3 {
		return fmt.Errorf("at least 3 agents are required, got %d", len(c.Agents))
	}

	seen := make(map[string]bool, len(c.Agents))
	for i, a := range c.Agents {
		if a.ID == "" {
			return fmt.Errorf("agent %d has no id", i+1)
		}
		if seen[a.ID] {
			return fmt.Errorf("duplicate agent id: %s", a.ID)
		}
		seen[a.ID] = true

		p, ok := c.Providers[a.Provider]
		if !ok {
			return fmt.Errorf("agent %s references unknown provider %s", a.ID, a.Provider)
		}
		if !p.Enabled {
			return fmt.Errorf("agent %s references disabled provider %s", a.ID, a.Provider)
		}
	}

	if c.Arbiter == "" {
		return fmt.Errorf("an arbiter agent must be designated")
	}
	if !seen[c.Arbiter] {
		return fmt.Errorf("arbiter %s is not a configured agent", c.Arbiter)
	}

	for name, p := range c.Providers {
		switch gateway.FailureMode(p.FailureMode) {
		case gateway.FailSoft, gateway.FailHard, "":
		default:
			return fmt.Errorf("provider %s has invalid failure_mode %q", name, p.FailureMode)
		}
	}

	return nil
}

// Save saves the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo saves the configuration to a specific path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Roster returns the configured agents in configured order.
func (c *Config) Roster() []core.Agent {
	agents := make([]core.Agent, len(c.Agents))
	for i, a := range c.Agents {
		model := a.Model
		if model == "" {
			model = c.Providers[a.Provider].DefaultModel
		}
		agents[i] = core.Agent{
			ID:       core.AgentID(a.ID),
			Provider: a.Provider,
			Model:    model,
		}
	}
	return agents
}

// ToProviderConfig converts a ProviderConfig to provider.Config.
func (p ProviderConfig) ToProviderConfig(name string) provider.Config {
	return provider.Config{
		Name:         name,
		Command:      p.Command,
		Args:         p.Args,
		DefaultModel: p.DefaultModel,
		Models:       p.Models,
		Timeout:      p.Timeout,
		MaxRetries:   p.MaxRetries,
	}
}

// createProviderFromName creates a provider instance based on the provider name.
func createProviderFromName(name string, cfg provider.Config) (provider.Provider, error) {
	switch name {
	case "claude":
		return claude.New(cfg), nil
	case "gemini":
		return gemini.New(cfg), nil
	case "openai", "codex":
		return openai.New(cfg), nil
	case "mock":
		return provider.NewMockProvider(cfg), nil
	default:
		// Unknown providers fall back to generic
		return generic.New(cfg), nil
	}
}

// CreateProvider creates a provider instance from this configuration.
func (c *Config) CreateProvider(name string) (provider.Provider, error) {
	provCfg, ok := c.Providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %s not found in config", name)
	}
	if !provCfg.Enabled {
		return nil, fmt.Errorf("provider %s is disabled", name)
	}
	return createProviderFromName(name, provCfg.ToProviderConfig(name))
}

// CreateRegistry creates a provider registry from this configuration.
func (c *Config) CreateRegistry() (*provider.Registry, error) {
	registry := provider.NewRegistry()

	for name, provCfg := range c.Providers {
		if !provCfg.Enabled {
			continue
		}

		p, err := createProviderFromName(name, provCfg.ToProviderConfig(name))
		if err != nil {
			return nil, fmt.Errorf("failed to create provider %s: %w", name, err)
		}

		registry.Register(p)
	}

	return registry, nil
}

// CreateGateway creates the agent gateway over a registry, carrying the
// per-provider token ceilings and failure modes.
func (c *Config) CreateGateway(registry *provider.Registry) *gateway.Gateway {
	policies := make(map[string]gateway.Policy, len(c.Providers))
	for name, p := range c.Providers {
		mode := gateway.FailureMode(p.FailureMode)
		if mode == "" {
			mode = gateway.FailSoft
		}
		policies[name] = gateway.Policy{
			MaxOutputTokens: p.MaxOutputTokens,
			FailureMode:     mode,
		}
	}
	return gateway.New(registry, policies)
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "arbiter.yaml"
	}
	return filepath.Join(home, ".arbiter", "config.yaml")
}

// GenerateExample generates an example configuration file.
func GenerateExample() string {
	example := `# arbiter configuration file
# Place this file at ~/.arbiter/config.yaml

defaults:
  max_output_tokens: 2048   # Requested per agent call, clamped per provider
  excerpt_limit: 4000       # Max chars of a prior answer quoted in later rounds (0 = off)
  single_line_answers: false

# The debate roster, in order. One agent is the arbiter.
agents:
  - id: alpha
    provider: claude
  - id: beta
    provider: gemini
  - id: gamma
    provider: openai

arbiter: alpha

providers:
  claude:
    command: claude
    args: ["--print"]
    default_model: ""       # e.g., "sonnet", "opus", "haiku"
    models: ["opus", "sonnet", "haiku"]
    max_retries: 2
    max_output_tokens: 8192 # Hard ceiling; requests are clamped to this
    failure_mode: soft      # soft = absorb failures, hard = abort the debate
    enabled: true

  gemini:
    command: gemini
    default_model: ""
    models: ["pro", "flash"]
    max_output_tokens: 8192
    failure_mode: soft
    enabled: true

  openai:
    command: codex
    default_model: ""
    models: ["gpt-5.2-codex", "gpt-5.2"]
    max_output_tokens: 4096
    failure_mode: hard
    enabled: true
`
	return example
}
