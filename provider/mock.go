package provider

import (
	"context"
	"strings"
	"time"
)

// MockProvider generates canned, marker-structured responses so debates
// can run end to end without any AI CLI installed. Register agents on
// the "mock" provider to demo or test the pipeline offline.
type MockProvider struct {
	BaseProvider

	// Delay simulates provider latency.
	Delay time.Duration

	// Script, when set, overrides the canned responses entirely.
	Script func(req *Request) string
}

// NewMockProvider creates a new mock provider.
func NewMockProvider(cfg Config) *MockProvider {
	if cfg.Name == "" {
		cfg.Name = "mock"
	}
	if cfg.DisplayName == "" {
		cfg.DisplayName = "Mock (Simulated)"
	}
	if len(cfg.Models) == 0 {
		cfg.Models = []string{"mock-v1", "mock-v2"}
	}
	return &MockProvider{
		BaseProvider: NewBaseProvider(cfg),
		Delay:        100 * time.Millisecond,
	}
}

// Available always returns true for the mock provider.
func (p *MockProvider) Available() bool {
	return true
}

// Execute returns a simulated, marker-structured response.
func (p *MockProvider) Execute(ctx context.Context, req *Request) (*Response, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(p.Delay):
	}

	content := ""
	if p.Script != nil {
		content = p.Script(req)
	} else {
		content = p.canned(req)
	}

	model := req.Model
	if model == "" {
		model = p.DefaultModel()
	}

	return &Response{
		Content:  content,
		Model:    model,
		Provider: p.Name(),
	}, nil
}

// HealthCheck always reports the mock as healthy.
func (p *MockProvider) HealthCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Available: true,
		CheckedAt: time.Now(),
	}
}

func (p *MockProvider) canned(req *Request) string {
	switch {
	case strings.Contains(req.Prompt, "REVISED ANSWER:") || strings.Contains(req.System, "REVISED ANSWER:"):
		return "CRITIQUE: The candidate answers are consistent and each derivation checks out independently.\nREVISED ANSWER: simulated answer"
	case strings.Contains(req.System, "RATIONALE:"):
		return "FINAL ANSWER: simulated answer\nRATIONALE: All candidates were re-verified and agree."
	default:
		return "UNDERSTANDING: A simulated reading of the question.\n" +
			"APPROACH: Pretend to reason about it.\n" +
			"SOLUTION: Work through the pretend reasoning.\n" +
			"VERIFICATION: The pretend reasoning is self-consistent.\n" +
			"FINAL ANSWER: simulated answer\n" +
			"CONFIDENCE: high"
	}
}
