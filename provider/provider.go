// Package provider provides a reusable abstraction for AI CLI tools.
//
// This package wraps command-line AI tools (Claude, Gemini, OpenAI, etc.)
// with a unified interface so the debate gateway can treat every agent
// as the same capability: generate text given a system instruction, a
// user prompt, and a token budget.
package provider

import (
	"context"
	"time"
)

// Provider defines the interface for AI CLI providers.
type Provider interface {
	// Name returns the provider's unique identifier (e.g., "claude", "gemini").
	Name() string

	// DisplayName returns a human-friendly name.
	DisplayName() string

	// Available checks if the provider's CLI tool is installed and accessible.
	Available() bool

	// Models returns the models this provider can serve.
	Models() []string

	// DefaultModel returns the model used when Request.Model is empty.
	DefaultModel() string

	// Execute sends a request to the provider and returns a structured response.
	Execute(ctx context.Context, req *Request) (*Response, error)

	// HealthCheck verifies the provider end to end with a trivial prompt.
	HealthCheck(ctx context.Context) HealthStatus
}

// Request represents a generation request to an AI provider.
type Request struct {
	// System is the system instruction establishing the agent's role for
	// this call. Providers without a dedicated system channel prepend it
	// to the prompt.
	System string

	// Prompt is the user prompt to send to the AI.
	Prompt string

	// Model is the specific model to use (e.g., "sonnet", "gpt-4").
	// If empty, the provider's default model will be used.
	Model string

	// MaxTokens is the output token budget for this call. Zero means
	// provider default. Callers are expected to clamp this to the
	// provider's accepted range before issuing the request.
	MaxTokens int

	// Args are additional command-line arguments to pass to the provider.
	Args []string
}

// Response represents a provider's response with metadata.
type Response struct {
	// Content is the AI-generated text response.
	Content string `json:"content"`

	// Model is the model that was used for this response.
	Model string `json:"model,omitempty"`

	// Provider is the name of the provider that generated this response.
	Provider string `json:"provider,omitempty"`

	// Metadata contains usage statistics and additional information.
	Metadata *Metadata `json:"metadata,omitempty"`

	// Raw is the unprocessed output from the CLI tool (for debugging).
	Raw string `json:"-"`
}

// Metadata contains usage statistics and additional response information.
type Metadata struct {
	// InputTokens is the number of tokens in the input/prompt.
	InputTokens int `json:"input_tokens,omitempty"`

	// OutputTokens is the number of tokens in the generated response.
	OutputTokens int `json:"output_tokens,omitempty"`

	// TotalTokens is the total number of tokens (input + output).
	TotalTokens int `json:"total_tokens,omitempty"`

	// Duration is the time taken to generate the response.
	Duration time.Duration `json:"duration,omitempty"`

	// StopReason indicates why the generation stopped (e.g., "end_turn", "max_tokens").
	StopReason string `json:"stop_reason,omitempty"`

	// SessionID is a unique identifier for this session (if supported by the provider).
	SessionID string `json:"session_id,omitempty"`
}

// HealthStatus reports the outcome of a provider health check.
type HealthStatus struct {
	Available    bool          `json:"available"`
	ResponseTime time.Duration `json:"response_time"`
	Error        string        `json:"error,omitempty"`
	CheckedAt    time.Time     `json:"checked_at"`
}

// Config holds configuration for creating a provider.
type Config struct {
	// Name is the unique identifier for this provider (e.g., "claude").
	Name string

	// DisplayName is a human-friendly name for this provider.
	// If empty, Name will be used.
	DisplayName string

	// Command is the CLI executable name (e.g., "claude", "gemini").
	Command string

	// Args are default arguments to pass to the CLI command.
	Args []string

	// DefaultModel is the model to use when Request.Model is empty.
	DefaultModel string

	// Models is a list of available models for this provider.
	Models []string

	// Timeout is the maximum duration for a request.
	// Default: 5 minutes.
	Timeout time.Duration

	// MaxRetries is the number of retries for a failed command.
	// Default: 2 retries (3 total attempts).
	MaxRetries int
}
