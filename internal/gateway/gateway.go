// Package gateway presents heterogeneous AI providers as one uniform
// capability: generate text for an agent given a system instruction, a
// user prompt, and a token budget.
package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alienxp03/arbiter/internal/core"
	"github.com/alienxp03/arbiter/provider"
)

// FailureMode controls what happens when a provider call fails or
// returns an unusable payload.
type FailureMode string

const (
	// FailSoft absorbs the failure: the caller receives a fixed
	// fallback payload carrying the sentinel in every field, and the
	// debate continues without this agent's real contribution.
	FailSoft FailureMode = "soft"

	// FailHard propagates the failure and aborts the whole debate.
	// Some integrations are considered too unreliable to trust blindly.
	FailHard FailureMode = "hard"
)

// Policy describes how the gateway treats one provider.
type Policy struct {
	// MaxOutputTokens is the provider's hard ceiling. Requests above it
	// are clamped; the gateway never sends a request exceeding the
	// provider's accepted range. Zero means no ceiling.
	MaxOutputTokens int

	// FailureMode selects soft or hard failure handling.
	FailureMode FailureMode
}

// Gateway dispatches generation requests to the provider bound to each
// agent identity. It is read-only after construction and safe for
// concurrent use by every call in a round.
type Gateway struct {
	registry *provider.Registry
	policies map[string]Policy
}

// New creates a gateway over a provider registry with per-provider
// policies keyed by provider name.
func New(registry *provider.Registry, policies map[string]Policy) *Gateway {
	if policies == nil {
		policies = make(map[string]Policy)
	}
	return &Gateway{
		registry: registry,
		policies: policies,
	}
}

// Policy returns the policy for a provider. Unknown providers default
// to soft failure with no token ceiling.
func (g *Gateway) Policy(providerName string) Policy {
	if p, ok := g.policies[providerName]; ok {
		return p
	}
	return Policy{FailureMode: FailSoft}
}

// Generate runs one generation call for an agent. The requested token
// budget is clamped to the provider's ceiling. Soft-failing providers
// never surface an error: a failed or empty response is replaced by the
// fixed fallback payload so downstream extraction always finds the
// sentinel and no round ever stalls.
func (g *Gateway) Generate(ctx context.Context, agent core.Agent, system, userPrompt string, maxTokens int) (string, error) {
	policy := g.Policy(agent.Provider)

	prov, err := g.registry.Get(agent.Provider)
	if err != nil {
		return g.absorb(agent, policy, fmt.Errorf("no provider bound to agent %s: %w", agent.ID, err))
	}

	if policy.MaxOutputTokens > 0 && maxTokens > policy.MaxOutputTokens {
		slog.Debug("Clamping token budget to provider ceiling",
			"agent", agent.ID,
			"provider", agent.Provider,
			"requested", maxTokens,
			"ceiling", policy.MaxOutputTokens,
		)
		maxTokens = policy.MaxOutputTokens
	}

	resp, err := prov.Execute(ctx, &provider.Request{
		System:    system,
		Prompt:    userPrompt,
		Model:     agent.Model,
		MaxTokens: maxTokens,
	})
	if err != nil {
		return g.absorb(agent, policy, err)
	}

	// A safety-filtered or truncated-to-nothing payload is as unusable
	// as an outright failure.
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return g.absorb(agent, policy, fmt.Errorf("provider %s returned an empty payload", agent.Provider))
	}

	return resp.Content, nil
}

// absorb applies the failure policy: soft providers yield the fallback
// payload, hard providers re-raise.
func (g *Gateway) absorb(agent core.Agent, policy Policy, err error) (string, error) {
	if policy.FailureMode == FailHard {
		return "", fmt.Errorf("agent %s (%s): %w", agent.ID, agent.Provider, err)
	}

	slog.Warn("Absorbing provider failure with fallback payload",
		"agent", agent.ID,
		"provider", agent.Provider,
		"error", err,
	)
	return core.FallbackPayload(), nil
}
