// Package openai provides an OpenAI/Codex CLI provider implementation.
package openai

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/alienxp03/arbiter/provider"
)

// Provider implements the provider.Provider interface for the Codex CLI.
type Provider struct {
	provider.BaseProvider
}

// New creates a new OpenAI/Codex provider with the given configuration.
func New(cfg provider.Config) *Provider {
	if cfg.Name == "" {
		cfg.Name = "openai"
	}
	return &Provider{
		BaseProvider: provider.NewBaseProvider(cfg),
	}
}

// Execute sends a request to the Codex CLI and returns a structured response.
func (p *Provider) Execute(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	args := []string{"exec", "--json"}

	model := req.Model
	if model == "" {
		model = p.DefaultModel()
	}
	if model != "" {
		args = append(args, "--model", model)
	}

	if req.MaxTokens > 0 {
		args = append(args, "--max-tokens", strconv.Itoa(req.MaxTokens))
	}

	// No dedicated system channel; fold the instruction into the prompt.
	prompt := req.Prompt
	if req.System != "" {
		var b strings.Builder
		b.WriteString(req.System)
		b.WriteString("\n\n")
		b.WriteString(req.Prompt)
		prompt = b.String()
	}
	args = append(args, prompt)

	if len(req.Args) > 0 {
		args = append(args, req.Args...)
	}

	execReq := &provider.Request{
		Prompt: prompt,
		Model:  model,
		Args:   args,
	}

	start := time.Now()
	rawOutput, err := p.ExecuteCommand(ctx, execReq)
	if err != nil {
		return nil, err
	}

	resp, err := ParseJSON(rawOutput, time.Since(start))
	if err != nil {
		return &provider.Response{
			Content:  rawOutput,
			Provider: p.Name(),
			Model:    model,
		}, nil
	}

	resp.Provider = p.Name()
	if model != "" && resp.Model == "" {
		resp.Model = model
	}

	return resp, nil
}

// HealthCheck performs a quick health check using the provider execution path.
func (p *Provider) HealthCheck(ctx context.Context) provider.HealthStatus {
	return provider.HealthCheckWithExecute(ctx, p.DefaultModel(), p.Execute)
}
