// Package debate orchestrates the three-round adjudication protocol:
// independent solve, cross-critique, arbitration.
package debate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alienxp03/arbiter/internal/core"
	"github.com/alienxp03/arbiter/internal/gateway"
	"github.com/alienxp03/arbiter/internal/prompt"
)

// State names a debate's position in the round sequence. Transitions
// are forward-only; a debate never re-enters an earlier round.
type State string

const (
	StateR1Pending State = "R1_PENDING"
	StateR1Done    State = "R1_DONE"
	StateR2Pending State = "R2_PENDING"
	StateR2Done    State = "R2_DONE"
	StateR3Pending State = "R3_PENDING"
	StateR3Done    State = "R3_DONE"
)

// ErrEmptyQuestion is returned for a blank question before any
// provider is invoked. It marks a caller mistake, not a provider
// failure.
var ErrEmptyQuestion = errors.New("question must not be empty")

// Options tunes a debate run.
type Options struct {
	// MaxOutputTokens is the budget requested per agent call. The
	// gateway clamps it to each provider's ceiling.
	MaxOutputTokens int

	// SingleLineAnswers restricts final-answer extraction to the first
	// non-empty line after the marker.
	SingleLineAnswers bool
}

// Engine runs debates over a fixed agent roster.
type Engine struct {
	gateway *gateway.Gateway
	roster  []core.Agent
	arbiter core.Agent
	prompts *prompt.Builder
	opts    Options
	logger  *slog.Logger
}

// New creates an engine. The arbiter must be one of the roster agents;
// config validation guarantees this, and New falls back to the first
// agent rather than leaving the slot empty.
func New(gw *gateway.Gateway, roster []core.Agent, arbiterID core.AgentID, prompts *prompt.Builder, opts Options, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	arbiter := roster[0]
	for _, a := range roster {
		if a.ID == arbiterID {
			arbiter = a
			break
		}
	}
	return &Engine{
		gateway: gw,
		roster:  roster,
		arbiter: arbiter,
		prompts: prompts,
		opts:    opts,
		logger:  logger,
	}
}

// Run executes all three rounds and returns the assembled result. A
// hard provider failure at any round aborts the whole debate; there is
// no partial result.
func (e *Engine) Run(ctx context.Context, question string) (*core.DebateResult, error) {
	return e.run(ctx, question, nil)
}

// RunWithProgress is Run with a state callback, invoked on every round
// transition. Used by the streaming endpoint.
func (e *Engine) RunWithProgress(ctx context.Context, question string, onState func(State)) (*core.DebateResult, error) {
	return e.run(ctx, question, onState)
}

func (e *Engine) run(ctx context.Context, question string, onState func(State)) (*core.DebateResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	notify := func(s State) {
		if onState != nil {
			onState(s)
		}
	}

	start := time.Now()
	id := uuid.New().String()
	e.logger.Info("debate started", "id", id, "agents", len(e.roster), "arbiter", e.arbiter.ID)

	notify(StateR1Pending)
	roundOne, err := e.runRoundOne(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("round 1: %w", err)
	}
	notify(StateR1Done)
	e.logger.Info("round 1 complete", "id", id, "answers", len(roundOne))

	notify(StateR2Pending)
	roundTwo, err := e.runRoundTwo(ctx, question, roundOne)
	if err != nil {
		return nil, fmt.Errorf("round 2: %w", err)
	}
	notify(StateR2Done)
	e.logger.Info("round 2 complete", "id", id, "critiques", len(roundTwo))

	notify(StateR3Pending)
	verdict, err := e.runRoundThree(ctx, question, roundOne, roundTwo)
	if err != nil {
		return nil, fmt.Errorf("round 3: %w", err)
	}
	notify(StateR3Done)

	chosenFrom := make([]core.AgentID, len(e.roster))
	for i, a := range e.roster {
		chosenFrom[i] = a.ID
	}

	result := &core.DebateResult{
		ID:             id,
		Question:       question,
		RoundOne:       roundOne,
		RoundTwo:       roundTwo,
		FinalAnswer:    verdict.FinalAnswer,
		FinalRationale: verdict.Rationale,
		ChosenFrom:     chosenFrom,
		CreatedAt:      start,
		Duration:       time.Since(start),
	}
	e.logger.Info("debate complete", "id", id, "duration", result.Duration)
	return result, nil
}

// runRoundOne fans the question out to every agent independently.
func (e *Engine) runRoundOne(ctx context.Context, question string) ([]core.RoundOneAnswer, error) {
	p := e.prompts.RoundOne(question)
	return fanOut(ctx, len(e.roster), func(ctx context.Context, i int) (core.RoundOneAnswer, error) {
		agent := e.roster[i]
		raw, err := e.gateway.Generate(ctx, agent, p.System, p.User, e.opts.MaxOutputTokens)
		if err != nil {
			return core.RoundOneAnswer{}, err
		}
		return core.ParseRoundOne(agent.ID, raw, e.mode()), nil
	})
}

// runRoundTwo shows each agent everyone else's first-round work and
// asks for a critique and a possibly revised answer. Each agent keeps
// its own provider binding.
func (e *Engine) runRoundTwo(ctx context.Context, question string, roundOne []core.RoundOneAnswer) ([]core.RoundTwoCritique, error) {
	return fanOut(ctx, len(e.roster), func(ctx context.Context, i int) (core.RoundTwoCritique, error) {
		agent := e.roster[i]
		p := e.prompts.RoundTwo(question, roundOne[i], roundOne)
		raw, err := e.gateway.Generate(ctx, agent, p.System, p.User, e.opts.MaxOutputTokens)
		if err != nil {
			return core.RoundTwoCritique{}, err
		}
		return core.ParseRoundTwo(agent.ID, raw, roundOne[i], e.mode()), nil
	})
}

// runRoundThree is the single arbiter call over the full record.
func (e *Engine) runRoundThree(ctx context.Context, question string, roundOne []core.RoundOneAnswer, roundTwo []core.RoundTwoCritique) (core.Verdict, error) {
	p := e.prompts.RoundThree(question, roundOne, roundTwo)
	raw, err := e.gateway.Generate(ctx, e.arbiter, p.System, p.User, e.opts.MaxOutputTokens)
	if err != nil {
		return core.Verdict{}, err
	}
	return core.ParseVerdict(raw), nil
}

func (e *Engine) mode() core.ExtractMode {
	if e.opts.SingleLineAnswers {
		return core.ModeSingleLine
	}
	return core.ModeMultiLine
}
