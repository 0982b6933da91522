package openai

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/alienxp03/arbiter/provider"
)

// JSONResponse represents OpenAI-compatible structured output.
type JSONResponse struct {
	Response string `json:"response,omitempty"`
	Choices  []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices,omitempty"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
	Content string `json:"content,omitempty"` // Fallback for simple content field
}

// JSONEvent represents one event from Codex CLI --json (newline-delimited).
type JSONEvent struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id,omitempty"`
	Message   *struct {
		Role    string `json:"role,omitempty"`
		Content string `json:"content,omitempty"`
	} `json:"message,omitempty"`
	Usage *struct {
		PromptTokens     int   `json:"prompt_tokens"`
		CompletionTokens int   `json:"completion_tokens"`
		TotalTokens      int   `json:"total_tokens"`
		DurationMs       int64 `json:"duration_ms,omitempty"`
	} `json:"usage,omitempty"`
	StopReason string `json:"stop_reason,omitempty"`
	Text       string `json:"text,omitempty"`
}

// ParseJSON parses Codex CLI JSON output, supporting both the
// newline-delimited event stream and the single-object formats.
func ParseJSON(data string, duration time.Duration) (*provider.Response, error) {
	resp := &provider.Response{Raw: data}

	// Try newline-delimited JSON events first (streaming format).
	var foundEvents bool
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var event JSONEvent
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			continue
		}

		foundEvents = true

		if event.Message != nil && event.Message.Content != "" {
			resp.Content += event.Message.Content
		}
		if event.Text != "" {
			resp.Content += event.Text
		}

		if event.Usage != nil {
			if resp.Metadata == nil {
				resp.Metadata = &provider.Metadata{}
			}
			resp.Metadata.InputTokens = event.Usage.PromptTokens
			resp.Metadata.OutputTokens = event.Usage.CompletionTokens
			resp.Metadata.TotalTokens = event.Usage.TotalTokens
			if event.Usage.DurationMs > 0 {
				resp.Metadata.Duration = time.Duration(event.Usage.DurationMs) * time.Millisecond
			}
		}
		if event.StopReason != "" {
			if resp.Metadata == nil {
				resp.Metadata = &provider.Metadata{}
			}
			resp.Metadata.StopReason = event.StopReason
		}
		if event.SessionID != "" {
			if resp.Metadata == nil {
				resp.Metadata = &provider.Metadata{}
			}
			resp.Metadata.SessionID = event.SessionID
		}
	}

	if foundEvents && resp.Content != "" {
		if resp.Metadata != nil && resp.Metadata.Duration == 0 {
			resp.Metadata.Duration = duration
		}
		return resp, nil
	}

	// Single-object format.
	var raw JSONResponse
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return &provider.Response{
			Content: data,
			Raw:     data,
		}, nil
	}

	switch {
	case raw.Response != "":
		resp.Content = raw.Response
	case len(raw.Choices) > 0:
		resp.Content = raw.Choices[0].Message.Content
		resp.Metadata = &provider.Metadata{
			StopReason: raw.Choices[0].FinishReason,
			Duration:   duration,
		}
	case raw.Content != "":
		resp.Content = raw.Content
	default:
		// Not a shape we recognize; keep the raw output as content so
		// no signal is discarded.
		resp.Content = data
	}

	if raw.Usage != nil {
		if resp.Metadata == nil {
			resp.Metadata = &provider.Metadata{Duration: duration}
		}
		resp.Metadata.InputTokens = raw.Usage.PromptTokens
		resp.Metadata.OutputTokens = raw.Usage.CompletionTokens
		resp.Metadata.TotalTokens = raw.Usage.TotalTokens
	}

	return resp, nil
}
