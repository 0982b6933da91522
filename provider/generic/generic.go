// Package generic provides a provider for arbitrary AI CLI tools that
// print plain text to stdout.
package generic

import (
	"context"
	"strings"
	"time"

	"github.com/alienxp03/arbiter/provider"
)

// Provider implements provider.Provider for any CLI that accepts a
// prompt as its final argument and writes the completion to stdout.
type Provider struct {
	provider.BaseProvider
}

// New creates a generic provider with the given configuration.
func New(cfg provider.Config) *Provider {
	return &Provider{
		BaseProvider: provider.NewBaseProvider(cfg),
	}
}

// Execute sends a request to the CLI and returns its stdout verbatim.
func (p *Provider) Execute(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	args := []string{}

	model := req.Model
	if model == "" {
		model = p.DefaultModel()
	}
	if model != "" {
		args = append(args, "--model", model)
	}

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

	return &provider.Response{
		Content:  rawOutput,
		Model:    model,
		Provider: p.Name(),
		Raw:      rawOutput,
		Metadata: &provider.Metadata{
			Duration: time.Since(start),
		},
	}, nil
}

// HealthCheck performs a quick health check using the provider execution path.
func (p *Provider) HealthCheck(ctx context.Context) provider.HealthStatus {
	return provider.HealthCheckWithExecute(ctx, p.DefaultModel(), p.Execute)
}
