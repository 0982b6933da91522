package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// CLIError reports a failed CLI invocation. The gateway inspects these
// to decide whether an agent's failure degrades the debate (soft) or
// aborts it (hard).
type CLIError struct {
	// Provider is the name of the provider that encountered the error.
	Provider string

	// Message is a human-readable error message, typically the CLI's stderr.
	Message string

	// Timeout marks errors caused by the provider deadline expiring.
	Timeout bool

	// Err is the underlying error (if any).
	Err error
}

// Error implements the error interface.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s provider error: %s: %v", e.Provider, e.Message, e.Err)
	}
	return fmt.Sprintf("%s provider error: %s", e.Provider, e.Message)
}

// Unwrap returns the underlying error.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// Retriable reports whether the failure looks transient. Timeouts and
// network-shaped stderr are worth another attempt; everything else is
// treated as permanent so a broken prompt fails fast.
func (e *CLIError) Retriable() bool {
	if e.Timeout {
		return true
	}

	msg := strings.ToLower(e.Message)
	return strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "connection") ||
		strings.Contains(msg, "network") ||
		strings.Contains(msg, "temporary") ||
		strings.Contains(msg, "unavailable")
}

// IsRetriable reports whether err warrants another attempt.
func IsRetriable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr.Retriable()
	}
	return false
}
