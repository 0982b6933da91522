package debate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alienxp03/arbiter/internal/core"
	"github.com/alienxp03/arbiter/internal/gateway"
	"github.com/alienxp03/arbiter/internal/prompt"
	"github.com/alienxp03/arbiter/provider"
)

type agentScript struct {
	id      string
	mode    gateway.FailureMode
	delay   time.Duration
	respond func(req *provider.Request) string
}

// newTestEngine wires one mock provider per agent so each can have its
// own script and failure policy.
func newTestEngine(t *testing.T, scripts []agentScript) *Engine {
	t.Helper()

	registry := provider.NewRegistry()
	policies := make(map[string]gateway.Policy)
	roster := make([]core.Agent, 0, len(scripts))

	for _, s := range scripts {
		p := provider.NewMockProvider(provider.Config{Name: "mock-" + s.id})
		p.Delay = s.delay
		p.Script = s.respond
		registry.Register(p)

		mode := s.mode
		if mode == "" {
			mode = gateway.FailSoft
		}
		policies[p.Name()] = gateway.Policy{MaxOutputTokens: 4096, FailureMode: mode}
		roster = append(roster, core.Agent{ID: core.AgentID(s.id), Provider: p.Name(), Model: "mock-v1"})
	}

	gw := gateway.New(registry, policies)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(gw, roster, roster[0].ID, prompt.NewBuilder(0), Options{MaxOutputTokens: 512}, logger)
}

// answers builds a well-formed response for each round, keyed off the
// markers the round's system prompt asks for.
func answers(answer string) func(req *provider.Request) string {
	return func(req *provider.Request) string {
		switch {
		case strings.Contains(req.System, core.MarkerRevisedAnswer):
			return "CRITIQUE: all candidates check out\nREVISED ANSWER: " + answer
		case strings.Contains(req.System, core.MarkerRationale):
			return "FINAL ANSWER: " + answer + "\nRATIONALE: every candidate re-verified"
		default:
			return "UNDERSTANDING: percentage\nAPPROACH: multiply\nSOLUTION: 240 * 0.15\nVERIFICATION: 36 / 240 = 0.15\nFINAL ANSWER: " + answer + "\nCONFIDENCE: high"
		}
	}
}

func TestRunAllAgentsAgree(t *testing.T) {
	eng := newTestEngine(t, []agentScript{
		{id: "alpha", respond: answers("36")},
		{id: "beta", respond: answers("36")},
		{id: "gamma", respond: answers("36")},
	})

	var states []State
	result, err := eng.RunWithProgress(context.Background(), "What is 15% of 240?", func(s State) {
		states = append(states, s)
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.FinalAnswer != "36" {
		t.Errorf("FinalAnswer = %q, want 36", result.FinalAnswer)
	}
	if len(result.RoundOne) != 3 || len(result.RoundTwo) != 3 {
		t.Errorf("round sizes = %d/%d, want 3/3", len(result.RoundOne), len(result.RoundTwo))
	}
	for _, a := range result.RoundOne {
		if a.FinalAnswer != "36" {
			t.Errorf("agent %s round 1 answer = %q, want 36", a.AgentID, a.FinalAnswer)
		}
	}
	if result.FinalRationale == "" {
		t.Error("FinalRationale is empty")
	}
	if result.ID == "" || result.Duration <= 0 {
		t.Error("result missing id or duration")
	}

	wantStates := []State{StateR1Pending, StateR1Done, StateR2Pending, StateR2Done, StateR3Pending, StateR3Done}
	if len(states) != len(wantStates) {
		t.Fatalf("state transitions = %v, want %v", states, wantStates)
	}
	for i, s := range wantStates {
		if states[i] != s {
			t.Errorf("transition %d = %s, want %s", i, states[i], s)
		}
	}

	wantChosen := []core.AgentID{"alpha", "beta", "gamma"}
	for i, id := range wantChosen {
		if result.ChosenFrom[i] != id {
			t.Errorf("ChosenFrom[%d] = %s, want %s", i, result.ChosenFrom[i], id)
		}
	}
}

func TestRunEmptyQuestion(t *testing.T) {
	var calls atomic.Int64
	counting := func(req *provider.Request) string {
		calls.Add(1)
		return answers("x")(req)
	}
	eng := newTestEngine(t, []agentScript{
		{id: "alpha", respond: counting},
		{id: "beta", respond: counting},
		{id: "gamma", respond: counting},
	})

	for _, q := range []string{"", "   ", "\n\t"} {
		result, err := eng.Run(context.Background(), q)
		if !errors.Is(err, ErrEmptyQuestion) {
			t.Errorf("Run(%q) error = %v, want ErrEmptyQuestion", q, err)
		}
		if result != nil {
			t.Errorf("Run(%q) returned a result on a rejected question", q)
		}
	}
	if n := calls.Load(); n != 0 {
		t.Errorf("providers invoked %d times for rejected questions, want 0", n)
	}
}

func TestRunSoftFailureCompletesWithSentinel(t *testing.T) {
	eng := newTestEngine(t, []agentScript{
		{id: "alpha", respond: answers("36")},
		{id: "beta", mode: gateway.FailSoft, respond: func(req *provider.Request) string { return "" }},
		{id: "gamma", respond: answers("36")},
	})

	result, err := eng.Run(context.Background(), "What is 15% of 240?")
	if err != nil {
		t.Fatalf("Run() error = %v, want soft failure absorbed", err)
	}

	if got := result.RoundOne[1].FinalAnswer; got != core.NoAnswer {
		t.Errorf("failed agent round 1 answer = %q, want sentinel %q", got, core.NoAnswer)
	}
	if got := result.RoundTwo[1].RevisedAnswer; got != core.NoAnswer {
		t.Errorf("failed agent round 2 answer = %q, want carried sentinel", got)
	}
	if result.FinalAnswer != "36" {
		t.Errorf("FinalAnswer = %q, want 36 from the healthy arbiter", result.FinalAnswer)
	}
	if len(result.RoundOne) != 3 || len(result.RoundTwo) != 3 {
		t.Error("soft failure changed round sizes")
	}
}

func TestRunHardFailureAborts(t *testing.T) {
	eng := newTestEngine(t, []agentScript{
		{id: "alpha", respond: answers("36")},
		{id: "beta", mode: gateway.FailHard, respond: func(req *provider.Request) string { return "" }},
		{id: "gamma", respond: answers("36")},
	})

	result, err := eng.Run(context.Background(), "What is 15% of 240?")
	if err == nil {
		t.Fatal("Run() = nil error, want hard failure")
	}
	if result != nil {
		t.Error("Run() returned a partial result on hard failure")
	}
	if !strings.Contains(err.Error(), "beta") {
		t.Errorf("error %q does not name the failed agent", err)
	}
}

func TestRunPreservesRosterOrderUnderVariableLatency(t *testing.T) {
	// Slowest agent first; completion order is the reverse of roster
	// order, the result order must not be.
	eng := newTestEngine(t, []agentScript{
		{id: "alpha", delay: 30 * time.Millisecond, respond: answers("1")},
		{id: "beta", delay: 15 * time.Millisecond, respond: answers("2")},
		{id: "gamma", delay: 1 * time.Millisecond, respond: answers("3")},
	})

	result, err := eng.Run(context.Background(), "order check")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []struct {
		id     core.AgentID
		answer string
	}{{"alpha", "1"}, {"beta", "2"}, {"gamma", "3"}}
	for i, w := range want {
		if result.RoundOne[i].AgentID != w.id || result.RoundOne[i].FinalAnswer != w.answer {
			t.Errorf("RoundOne[%d] = %s/%q, want %s/%q",
				i, result.RoundOne[i].AgentID, result.RoundOne[i].FinalAnswer, w.id, w.answer)
		}
		if result.RoundTwo[i].AgentID != w.id {
			t.Errorf("RoundTwo[%d] agent = %s, want %s", i, result.RoundTwo[i].AgentID, w.id)
		}
	}
}

func TestRoundTwoPromptsExcludeSelf(t *testing.T) {
	var mu sync.Mutex
	roundTwoPrompts := make(map[string]string)

	record := func(id, answer string) func(req *provider.Request) string {
		inner := answers(answer)
		return func(req *provider.Request) string {
			if strings.Contains(req.System, core.MarkerRevisedAnswer) {
				mu.Lock()
				roundTwoPrompts[id] = req.Prompt
				mu.Unlock()
			}
			return inner(req)
		}
	}

	eng := newTestEngine(t, []agentScript{
		{id: "alpha", respond: record("alpha", "36")},
		{id: "beta", respond: record("beta", "35")},
		{id: "gamma", respond: record("gamma", "36")},
	})

	if _, err := eng.Run(context.Background(), "What is 15% of 240?"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	ids := []string{"alpha", "beta", "gamma"}
	for _, self := range ids {
		p, ok := roundTwoPrompts[self]
		if !ok {
			t.Fatalf("no round 2 prompt recorded for %s", self)
		}
		if strings.Contains(p, "--- "+self+" ---") {
			t.Errorf("%s's round 2 prompt quotes its own answer as a peer", self)
		}
		for _, other := range ids {
			if other == self {
				continue
			}
			if !strings.Contains(p, "--- "+other+" ---") {
				t.Errorf("%s's round 2 prompt missing peer %s", self, other)
			}
		}
	}
}
