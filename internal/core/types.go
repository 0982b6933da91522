// Package core contains the core domain types for arbiter.
package core

import (
	"time"
)

// AgentID identifies one configured debate agent.
type AgentID string

// Agent is one configured model identity participating in a debate.
// The roster is fixed, process-wide configuration; agents are never
// added or swapped while a debate runs.
type Agent struct {
	ID       AgentID `json:"id"`
	Provider string  `json:"provider"` // claude, gemini, openai, ...
	Model    string  `json:"model"`    // specific model (optional)
}

// RoundOneAnswer is an agent's independent solution from Round 1.
// Reasoning and FinalAnswer are best-effort extractions from RawText.
type RoundOneAnswer struct {
	AgentID     AgentID `json:"agent_id"`
	RawText     string  `json:"raw_text"`
	Reasoning   string  `json:"reasoning"`
	FinalAnswer string  `json:"final_answer"`
}

// RoundTwoCritique is an agent's Round 2 critique of its peers plus its
// revised answer. RevisedAnswer falls back to the agent's own Round 1
// answer when extraction finds nothing.
type RoundTwoCritique struct {
	AgentID       AgentID `json:"agent_id"`
	RawText       string  `json:"raw_text"`
	Critique      string  `json:"critique"`
	RevisedAnswer string  `json:"revised_answer"`
}

// Verdict is the arbiter's Round 3 ruling.
type Verdict struct {
	FinalAnswer string `json:"final_answer"`
	Rationale   string `json:"rationale"`
}

// DebateResult is the terminal artifact of a debate session. It is
// constructed once and never mutated after return. RoundOne and
// RoundTwo preserve configured agent order.
type DebateResult struct {
	ID             string             `json:"id"`
	Question       string             `json:"question"`
	RoundOne       []RoundOneAnswer   `json:"round1"`
	RoundTwo       []RoundTwoCritique `json:"round2"`
	FinalAnswer    string             `json:"final_answer"`
	FinalRationale string             `json:"final_rationale"`
	ChosenFrom     []AgentID          `json:"chosen_from"`
	CreatedAt      time.Time          `json:"created_at"`
	Duration       time.Duration      `json:"duration"`
}

// ExtractMode selects how short answer fields are pulled out of a
// response. Multi-line is the default: structured answers may span many
// paragraphs and truncating them silently drops content. Single-line is
// an explicit opt-in for rounds whose expected answers fit on one line.
type ExtractMode int

const (
	ModeMultiLine ExtractMode = iota
	ModeSingleLine
)
