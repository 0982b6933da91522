package gemini

import (
	"testing"
	"time"
)

func TestParseJSON(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantContent string
		wantInput   int
		wantOutput  int
	}{
		{
			name:        "gemini_cli_response_field",
			input:       `{"response": "FINAL ANSWER: 36"}`,
			wantContent: "FINAL ANSWER: 36",
		},
		{
			name: "cli_response_with_stats",
			input: `{
				"response": "FINAL ANSWER: 36",
				"stats": {
					"models": {
						"gemini-pro": {
							"tokens": {"prompt": 12, "candidates": 8, "total": 20}
						}
					}
				}
			}`,
			wantContent: "FINAL ANSWER: 36",
			wantInput:   12,
			wantOutput:  8,
		},
		{
			name: "traditional_candidates_format",
			input: `{
				"candidates": [
					{"content": {"parts": [{"text": "FINAL "}, {"text": "ANSWER: 36"}]}, "finishReason": "STOP"}
				],
				"usageMetadata": {"promptTokenCount": 5, "candidatesTokenCount": 3, "totalTokenCount": 8}
			}`,
			wantContent: "FINAL ANSWER: 36",
			wantInput:   5,
			wantOutput:  3,
		},
		{
			name:        "simple_text_field",
			input:       `{"text": "36"}`,
			wantContent: "36",
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
			if tt.wantInput > 0 {
				if resp.Metadata == nil {
					t.Fatal("expected metadata")
				}
				if resp.Metadata.InputTokens != tt.wantInput {
					t.Errorf("InputTokens = %d, want %d", resp.Metadata.InputTokens, tt.wantInput)
				}
				if resp.Metadata.OutputTokens != tt.wantOutput {
					t.Errorf("OutputTokens = %d, want %d", resp.Metadata.OutputTokens, tt.wantOutput)
				}
			}
		})
	}
}

func TestParseJSONPlainTextFallback(t *testing.T) {
	resp, err := ParseJSON("plain text output", time.Second)
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}
	if resp.Content != "plain text output" {
		t.Errorf("Content = %q, want raw passthrough", resp.Content)
	}
}
