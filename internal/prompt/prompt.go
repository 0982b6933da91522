// Package prompt constructs the per-round system and user prompts from
// accumulated debate state.
package prompt

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/alienxp03/arbiter/internal/core"
)

// TruncationMark is appended whenever a quoted answer is cut for cost
// control, so downstream readers know content was dropped.
const TruncationMark = "…[truncated]"

// Prompt is one agent call's instruction pair.
type Prompt struct {
	System string
	User   string
}

// Builder produces round prompts. The zero value is usable; set
// ExcerptLimit to cap how much of a prior answer is quoted back in
// Round 2 and Round 3 (0 disables truncation).
type Builder struct {
	// Sections is the labeled output shape requested in Round 1.
	// Defaults to core.RoundOneSections.
	Sections []string

	// ExcerptLimit caps quoted prior-round content, in characters.
	// Truncation is applied uniformly and always leaves a visible mark.
	ExcerptLimit int
}

// NewBuilder creates a prompt builder with the default section set.
func NewBuilder(excerptLimit int) *Builder {
	return &Builder{
		Sections:     core.RoundOneSections,
		ExcerptLimit: excerptLimit,
	}
}

var roundTwoUserTmpl = template.Must(template.New("round2").Parse(`Question:
{{.Question}}

Your own first-round work:
{{.OwnReasoning}}
Your answer: {{.OwnAnswer}}

The other participants answered independently:
{{range .Others}}
--- {{.AgentID}} ---
{{.Reasoning}}
Answer: {{.FinalAnswer}}
{{end}}
Scrutinize every candidate answer above, including your own.`))

var roundThreeUserTmpl = template.Must(template.New("round3").Parse(`Question:
{{.Question}}

{{range .Agents}}
=== {{.AgentID}} ===
Round 1 answer: {{.FirstAnswer}}
Round 1 reasoning:
{{.Reasoning}}

Round 2 revised answer: {{.RevisedAnswer}}
Round 2 critique:
{{.Critique}}
{{end}}
Rule on the final answer now.`))

// RoundOne builds the independent-solve prompt: a fixed system
// instruction describing the labeled output shape and a user prompt
// containing only the question.
func (b *Builder) RoundOne(question string) Prompt {
	sections := b.Sections
	if len(sections) == 0 {
		sections = core.RoundOneSections
	}

	var sys strings.Builder
	sys.WriteString("You are one of several independent experts solving the same problem. ")
	sys.WriteString("Work entirely on your own; you will see the other experts' work in a later round.\n\n")
	sys.WriteString("Structure your response with exactly these labeled sections, in order:\n")
	for _, s := range sections {
		sys.WriteString(s)
		sys.WriteString("\n")
	}
	sys.WriteString("\nPut your complete answer after ")
	sys.WriteString(core.MarkerFinalAnswer)
	sys.WriteString(" so it can be read on its own.")

	return Prompt{
		System: sys.String(),
		User:   question,
	}
}

type roundTwoData struct {
	Question     string
	OwnReasoning string
	OwnAnswer    string
	Others       []core.RoundOneAnswer
}

// RoundTwo builds the critique/revise prompt for one agent. The others
// view excludes the agent's own Round 1 answer and includes every other
// agent's, labeled by identity.
func (b *Builder) RoundTwo(question string, self core.RoundOneAnswer, all []core.RoundOneAnswer) Prompt {
	others := make([]core.RoundOneAnswer, 0, len(all))
	for _, a := range all {
		if a.AgentID == self.AgentID {
			continue
		}
		a.Reasoning = b.excerpt(a.Reasoning)
		others = append(others, a)
	}

	data := roundTwoData{
		Question:     question,
		OwnReasoning: b.excerpt(self.Reasoning),
		OwnAnswer:    self.FinalAnswer,
		Others:       others,
	}

	var buf bytes.Buffer
	if err := roundTwoUserTmpl.Execute(&buf, data); err != nil {
		// Templates are static and the data is plain structs; an
		// execution error here is a programming bug.
		panic(fmt.Sprintf("round 2 template: %v", err))
	}

	sys := `You are reviewing the work of several independent experts, yourself included.

Treat agreement among them as a WEAK signal: if everyone converged on the same answer, apply extra scrutiny rather than extra confidence. Test, do not assume, the correctness of every candidate answer, including your own. Redo the key steps yourself.

Respond with exactly these labeled sections:
` + core.MarkerCritique + ` your assessment of each candidate answer
` + core.MarkerRevisedAnswer + ` your final answer after review (may be unchanged)`

	return Prompt{
		System: sys,
		User:   buf.String(),
	}
}

type arbiterAgentBlock struct {
	AgentID       core.AgentID
	FirstAnswer   string
	Reasoning     string
	RevisedAnswer string
	Critique      string
}

type roundThreeData struct {
	Question string
	Agents   []arbiterAgentBlock
}

// RoundThree builds the arbitration prompt over the full Round 1 and
// Round 2 record. Both slices are expected in configured agent order
// and of equal length.
func (b *Builder) RoundThree(question string, r1 []core.RoundOneAnswer, r2 []core.RoundTwoCritique) Prompt {
	blocks := make([]arbiterAgentBlock, 0, len(r1))
	for i, a := range r1 {
		block := arbiterAgentBlock{
			AgentID:     a.AgentID,
			FirstAnswer: a.FinalAnswer,
			Reasoning:   b.excerpt(a.Reasoning),
		}
		if i < len(r2) {
			block.RevisedAnswer = r2[i].RevisedAnswer
			block.Critique = b.excerpt(r2[i].Critique)
		}
		blocks = append(blocks, block)
	}

	data := roundThreeData{Question: question, Agents: blocks}

	var buf bytes.Buffer
	if err := roundThreeUserTmpl.Execute(&buf, data); err != nil {
		panic(fmt.Sprintf("round 3 template: %v", err))
	}

	sys := `You are the arbiter. Your ruling is final and will not be reviewed.

Majority agreement does NOT imply correctness: independently re-verify every distinct candidate answer before ruling. Where an agent changed its answer between rounds, weigh a change backed by a stated reason more heavily than one that merely converged to match the others.

Respond with exactly these labeled sections:
` + core.MarkerFinalAnswer + ` the single answer you are ruling for
` + core.MarkerRationale + ` why, including how you verified the candidates`

	return Prompt{
		System: sys,
		User:   buf.String(),
	}
}

// excerpt applies the uniform truncation policy to quoted content.
// The cut backs off to a rune boundary so multi-byte text is never
// split into invalid UTF-8.
func (b *Builder) excerpt(s string) string {
	if b.ExcerptLimit <= 0 || len(s) <= b.ExcerptLimit {
		return s
	}

	cut := b.ExcerptLimit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "\n" + TruncationMark
}
