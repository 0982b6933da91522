package provider

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestCLIErrorRetriable(t *testing.T) {
	tests := []struct {
		name string
		err  *CLIError
		want bool
	}{
		{
			name: "timeout flag",
			err:  &CLIError{Provider: "claude", Message: "command timed out", Timeout: true},
			want: true,
		},
		{
			name: "connection refused stderr",
			err:  &CLIError{Provider: "gemini", Message: "Connection refused by upstream"},
			want: true,
		},
		{
			name: "service unavailable stderr",
			err:  &CLIError{Provider: "openai", Message: "503 service unavailable"},
			want: true,
		},
		{
			name: "auth failure is permanent",
			err:  &CLIError{Provider: "claude", Message: "invalid API key"},
			want: false,
		},
		{
			name: "bad flag is permanent",
			err:  &CLIError{Provider: "openai", Message: "unknown flag: --max-tokenz"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Retriable(); got != tt.want {
				t.Errorf("Retriable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsRetriable(t *testing.T) {
	if IsRetriable(nil) {
		t.Error("nil error should not be retriable")
	}
	if !IsRetriable(context.DeadlineExceeded) {
		t.Error("deadline exceeded should be retriable")
	}
	if IsRetriable(errors.New("some other failure")) {
		t.Error("plain errors should not be retriable")
	}

	wrapped := fmt.Errorf("round 1: %w", &CLIError{
		Provider: "gemini",
		Message:  "network error while streaming",
	})
	if !IsRetriable(wrapped) {
		t.Error("wrapped retriable CLIError should be detected")
	}
}

func TestCLIErrorUnwrap(t *testing.T) {
	underlying := errors.New("exit status 1")
	err := &CLIError{Provider: "claude", Message: "command failed", Err: underlying}

	if !errors.Is(err, underlying) {
		t.Error("errors.Is should see the underlying error")
	}

	var cliErr *CLIError
	if !errors.As(fmt.Errorf("agent alpha: %w", err), &cliErr) {
		t.Fatal("errors.As should unwrap to *CLIError")
	}
	if cliErr.Provider != "claude" {
		t.Errorf("Provider = %s, want claude", cliErr.Provider)
	}
}
