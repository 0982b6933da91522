package claude

import (
	"encoding/json"
	"time"

	"github.com/alienxp03/arbiter/provider"
)

// envelope is the claude CLI's --output-format json shape. Depending on
// the CLI version the answer arrives either as message content blocks
// or as a flat result string, so both are modeled.
type envelope struct {
	Type       string         `json:"type"`
	Subtype    string         `json:"subtype,omitempty"`
	IsError    bool           `json:"is_error,omitempty"`
	Model      string         `json:"model,omitempty"`
	Content    []contentBlock `json:"content,omitempty"`
	Result     string         `json:"result,omitempty"`
	StopReason string         `json:"stop_reason,omitempty"`
	Usage      *usage         `json:"usage,omitempty"`
	SessionID  string         `json:"session_id,omitempty"`
	DurationMs int64          `json:"duration_ms,omitempty"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type usage struct {
	InputTokens              int `json:"input_tokens"`
	OutputTokens             int `json:"output_tokens"`
	CacheCreationInputTokens int `json:"cache_creation_input_tokens,omitempty"`
	CacheReadInputTokens     int `json:"cache_read_input_tokens,omitempty"`
}

// ParseJSON parses claude CLI JSON output. Non-JSON output is returned
// as a plain text response rather than an error, so older CLI versions
// without JSON support still work.
func ParseJSON(data string, duration time.Duration) (*provider.Response, error) {
	var env envelope
	if err := json.Unmarshal([]byte(data), &env); err != nil {
		return &provider.Response{
			Content: data,
			Raw:     data,
		}, nil
	}

	if env.IsError {
		msg := env.Result
		if msg == "" {
			msg = env.Subtype
		}
		if msg == "" {
			msg = "CLI reported an error"
		}
		return nil, &provider.CLIError{
			Provider: "claude",
			Message:  msg,
		}
	}

	return &provider.Response{
		Content:  env.answerText(),
		Model:    env.Model,
		Metadata: env.metadata(duration),
		Raw:      data,
	}, nil
}

// answerText prefers the message content blocks and falls back to the
// flat result field. Non-text blocks (thinking, tool use) are skipped.
func (e *envelope) answerText() string {
	if len(e.Content) == 0 {
		return e.Result
	}

	var text string
	for _, block := range e.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	return text
}

// metadata converts usage accounting into provider metadata. Cache
// creation and cache read tokens count as input since the provider
// billed for them. Returns nil when the CLI reported no usage.
func (e *envelope) metadata(duration time.Duration) *provider.Metadata {
	if e.Usage == nil {
		return nil
	}

	input := e.Usage.InputTokens + e.Usage.CacheCreationInputTokens + e.Usage.CacheReadInputTokens

	if e.DurationMs > 0 {
		duration = time.Duration(e.DurationMs) * time.Millisecond
	}

	return &provider.Metadata{
		InputTokens:  input,
		OutputTokens: e.Usage.OutputTokens,
		TotalTokens:  input + e.Usage.OutputTokens,
		StopReason:   e.StopReason,
		SessionID:    e.SessionID,
		Duration:     duration,
	}
}
