package gemini

import (
	"encoding/json"
	"time"

	"github.com/alienxp03/arbiter/provider"
)

// JSONResponse represents Gemini CLI JSON output.
type JSONResponse struct {
	Response string `json:"response,omitempty"` // Main response text from Gemini CLI
	Stats    *struct {
		Models map[string]*struct {
			Tokens *struct {
				Prompt     int `json:"prompt"`
				Candidates int `json:"candidates"`
				Total      int `json:"total"`
			} `json:"tokens,omitempty"`
		} `json:"models,omitempty"`
	} `json:"stats,omitempty"`
	// Fallback fields for the traditional Gemini API format
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason,omitempty"`
	} `json:"candidates,omitempty"`
	UsageMetadata *struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata,omitempty"`
	Text string `json:"text,omitempty"` // For simpler responses
}

// ParseJSON parses Gemini CLI JSON output. Non-JSON output is returned
// as a plain text response rather than an error.
func ParseJSON(data string, duration time.Duration) (*provider.Response, error) {
	var raw JSONResponse
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return &provider.Response{
			Content: data,
			Raw:     data,
		}, nil
	}

	resp := &provider.Response{
		Raw: data,
	}

	switch {
	case raw.Response != "":
		resp.Content = raw.Response
	case raw.Text != "":
		resp.Content = raw.Text
	case len(raw.Candidates) > 0:
		for _, part := range raw.Candidates[0].Content.Parts {
			resp.Content += part.Text
		}
		resp.Metadata = &provider.Metadata{
			StopReason: raw.Candidates[0].FinishReason,
			Duration:   duration,
		}
	}

	// Token stats from the Gemini CLI format.
	if raw.Stats != nil && raw.Stats.Models != nil {
		if resp.Metadata == nil {
			resp.Metadata = &provider.Metadata{Duration: duration}
		}
		for _, modelStats := range raw.Stats.Models {
			if modelStats.Tokens != nil {
				resp.Metadata.InputTokens += modelStats.Tokens.Prompt
				resp.Metadata.OutputTokens += modelStats.Tokens.Candidates
				resp.Metadata.TotalTokens += modelStats.Tokens.Total
			}
		}
	}

	// Fallback token stats from the traditional API format.
	if raw.UsageMetadata != nil {
		if resp.Metadata == nil {
			resp.Metadata = &provider.Metadata{Duration: duration}
		}
		if resp.Metadata.InputTokens == 0 {
			resp.Metadata.InputTokens = raw.UsageMetadata.PromptTokenCount
		}
		if resp.Metadata.OutputTokens == 0 {
			resp.Metadata.OutputTokens = raw.UsageMetadata.CandidatesTokenCount
		}
		if resp.Metadata.TotalTokens == 0 {
			resp.Metadata.TotalTokens = raw.UsageMetadata.TotalTokenCount
		}
	}

	return resp, nil
}
