package claude

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alienxp03/arbiter/provider"
)

func TestParseJSON(t *testing.T) {
	tests := []struct {
		name           string
		input          string
		wantContent    string
		wantModel      string
		wantInputToks  int
		wantOutputToks int
		wantStopReason string
	}{
		{
			name: "full_message_response",
			input: `{
				"type": "result",
				"role": "assistant",
				"model": "claude-sonnet-4-20250514",
				"content": [
					{"type": "text", "text": "FINAL ANSWER: 36"}
				],
				"stop_reason": "end_turn",
				"usage": {
					"input_tokens": 25,
					"output_tokens": 10
				}
			}`,
			wantContent:    "FINAL ANSWER: 36",
			wantModel:      "claude-sonnet-4-20250514",
			wantInputToks:  25,
			wantOutputToks: 10,
			wantStopReason: "end_turn",
		},
		{
			name: "multiple_content_blocks",
			input: `{
				"type": "result",
				"model": "claude-sonnet-4-20250514",
				"content": [
					{"type": "text", "text": "UNDERSTANDING: first. "},
					{"type": "text", "text": "FINAL ANSWER: second."}
				],
				"usage": {
					"input_tokens": 50,
					"output_tokens": 20
				}
			}`,
			wantContent:    "UNDERSTANDING: first. FINAL ANSWER: second.",
			wantModel:      "claude-sonnet-4-20250514",
			wantInputToks:  50,
			wantOutputToks: 20,
		},
		{
			name: "simple_result_response",
			input: `{
				"type": "result",
				"result": "FINAL ANSWER: 36",
				"model": "claude-sonnet-4-20250514"
			}`,
			wantContent: "FINAL ANSWER: 36",
			wantModel:   "claude-sonnet-4-20250514",
		},
		{
			name: "non_text_blocks_skipped",
			input: `{
				"type": "result",
				"model": "claude-sonnet-4-20250514",
				"content": [
					{"type": "thinking", "text": "hidden"},
					{"type": "text", "text": "visible"}
				]
			}`,
			wantContent: "visible",
			wantModel:   "claude-sonnet-4-20250514",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := ParseJSON(tt.input, time.Second)
			if err != nil {
				t.Fatalf("ParseJSON() error = %v", err)
			}
			if resp.Content != tt.wantContent {
				t.Errorf("Content = %q, want %q", resp.Content, tt.wantContent)
			}
			if resp.Model != tt.wantModel {
				t.Errorf("Model = %q, want %q", resp.Model, tt.wantModel)
			}
			if tt.wantInputToks > 0 {
				if resp.Metadata == nil {
					t.Fatal("expected metadata")
				}
				if resp.Metadata.InputTokens != tt.wantInputToks {
					t.Errorf("InputTokens = %d, want %d", resp.Metadata.InputTokens, tt.wantInputToks)
				}
				if resp.Metadata.OutputTokens != tt.wantOutputToks {
					t.Errorf("OutputTokens = %d, want %d", resp.Metadata.OutputTokens, tt.wantOutputToks)
				}
			}
			if tt.wantStopReason != "" && resp.Metadata.StopReason != tt.wantStopReason {
				t.Errorf("StopReason = %q, want %q", resp.Metadata.StopReason, tt.wantStopReason)
			}
		})
	}
}

func TestParseJSONPlainTextFallback(t *testing.T) {
	resp, err := ParseJSON("not json at all", time.Second)
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}
	if resp.Content != "not json at all" {
		t.Errorf("Content = %q, want raw passthrough", resp.Content)
	}
}

func TestParseJSONErrorResult(t *testing.T) {
	input := `{
		"type": "result",
		"subtype": "error_during_execution",
		"is_error": true,
		"result": "Credit balance is too low"
	}`
	resp, err := ParseJSON(input, time.Second)
	if err == nil {
		t.Fatal("expected error for is_error response")
	}
	if resp != nil {
		t.Error("expected nil response for is_error")
	}

	var cliErr *provider.CLIError
	if !errors.As(err, &cliErr) {
		t.Fatalf("error type = %T, want *provider.CLIError", err)
	}
	if !strings.Contains(cliErr.Message, "Credit balance") {
		t.Errorf("Message = %q, want the CLI's result text", cliErr.Message)
	}
}

func TestParseJSONCacheTokensCounted(t *testing.T) {
	input := `{
		"type": "result",
		"model": "claude-sonnet-4-20250514",
		"result": "ok",
		"usage": {
			"input_tokens": 10,
			"output_tokens": 5,
			"cache_creation_input_tokens": 3,
			"cache_read_input_tokens": 2
		}
	}`
	resp, err := ParseJSON(input, time.Second)
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}
	if resp.Metadata.InputTokens != 15 {
		t.Errorf("InputTokens = %d, want 15 (cache tokens included)", resp.Metadata.InputTokens)
	}
	if resp.Metadata.TotalTokens != 20 {
		t.Errorf("TotalTokens = %d, want 20", resp.Metadata.TotalTokens)
	}
}
