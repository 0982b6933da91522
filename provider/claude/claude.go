// Package claude provides a Claude CLI provider implementation.
package claude

import (
	"context"
	"strconv"
	"time"

	"github.com/alienxp03/arbiter/provider"
)

// Provider implements the provider.Provider interface for Claude CLI.
type Provider struct {
	provider.BaseProvider
}

// New creates a new Claude provider with the given configuration.
func New(cfg provider.Config) *Provider {
	return &Provider{
		BaseProvider: provider.NewBaseProvider(cfg),
	}
}

// Execute sends a request to Claude CLI and returns a structured response.
func (p *Provider) Execute(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	args := []string{"--output-format", "json"}

	model := req.Model
	if model == "" {
		model = p.DefaultModel()
	}
	if model != "" {
		args = append(args, "--model", model)
	}

	// Claude CLI has a dedicated system-prompt channel.
	if req.System != "" {
		args = append(args, "--append-system-prompt", req.System)
	}

	if req.MaxTokens > 0 {
		args = append(args, "--max-tokens", strconv.Itoa(req.MaxTokens))
	}

	args = append(args, req.Prompt)

	if len(req.Args) > 0 {
		args = append(args, req.Args...)
	}

	execReq := &provider.Request{
		Prompt: req.Prompt,
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
		return nil, err
	}
	resp.Provider = p.Name()
	return resp, nil
}

// HealthCheck verifies the Claude CLI end to end.
func (p *Provider) HealthCheck(ctx context.Context) provider.HealthStatus {
	return provider.HealthCheckWithExecute(ctx, p.DefaultModel(), p.Execute)
}
