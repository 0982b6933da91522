package provider

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	// HealthCheckPrompt is the check question sent to providers. It is
	// cheap to answer and has exactly one correct reply.
	HealthCheckPrompt = "1+1? One digit answer only"

	// healthCheckTimeout bounds the check separately from the provider's
	// debate timeout. A provider that cannot add within 30 seconds is
	// not going to carry a debate round.
	healthCheckTimeout = 30 * time.Second

	// healthCheckMaxTokens caps the check reply. The answer is one digit.
	healthCheckMaxTokens = 16
)

// HealthCheckWithExecute runs a provider health check through the given
// execute function. Providers delegate their HealthCheck here so the
// check and its validation stay in one place.
func HealthCheckWithExecute(ctx context.Context, model string, exec func(context.Context, *Request) (*Response, error)) HealthStatus {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	req := &Request{
		Prompt:    HealthCheckPrompt,
		Model:     model,
		MaxTokens: healthCheckMaxTokens,
	}

	resp, err := exec(ctx, req)
	elapsed := time.Since(start)
	if err != nil {
		return HealthStatus{
			Available:    false,
			ResponseTime: elapsed,
			Error:        err.Error(),
			CheckedAt:    time.Now(),
		}
	}
	if resp == nil {
		return HealthStatus{
			Available:    false,
			ResponseTime: elapsed,
			Error:        "empty response",
			CheckedAt:    time.Now(),
		}
	}

	if err := validateHealthResponse(resp.Content); err != nil {
		return HealthStatus{
			Available:    false,
			ResponseTime: elapsed,
			Error:        err.Error(),
			CheckedAt:    time.Now(),
		}
	}

	return HealthStatus{
		Available:    true,
		ResponseTime: elapsed,
		CheckedAt:    time.Now(),
	}
}

// validateHealthResponse accepts the check reply if its last non-empty
// line is the digit 2, ignoring trailing punctuation. Some CLIs prefix
// the answer with banner or progress lines, so earlier lines are not
// held against the provider.
func validateHealthResponse(content string) error {
	answer := lastNonEmptyLine(content)
	if answer == "" {
		return fmt.Errorf("unexpected response: empty")
	}

	if strings.TrimRight(answer, ".!\"'") == "2" {
		return nil
	}

	if len(answer) > 120 {
		answer = answer[:120] + "..."
	}
	return fmt.Errorf("unexpected response: %q", answer)
}

func lastNonEmptyLine(s string) string {
	lines := strings.Split(s, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
