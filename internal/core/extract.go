package core

import "strings"

// Extraction pulls labeled fields out of free-form agent text. It is
// best-effort by design: a missing marker is a normal outcome, never an
// error, and callers substitute an explicit fallback value. None of
// these functions panic or return errors.

// ExtractBetween returns the trimmed substring strictly between start
// and end. If start is absent the result is empty. If end is absent (or
// empty) everything from start to the end of the text is returned.
func ExtractBetween(text, start, end string) string {
	i := strings.Index(text, start)
	if i < 0 {
		return ""
	}
	rest := text[i+len(start):]
	if end != "" {
		if j := strings.Index(rest, end); j >= 0 {
			rest = rest[:j]
		}
	}
	return strings.TrimSpace(rest)
}

// ExtractAfter returns the trimmed text following marker, up to the
// nearest occurrence of any known next-section label, or the end of the
// text if none follow. Multi-paragraph content is captured whole.
func ExtractAfter(text, marker string, known ...string) string {
	i := strings.Index(text, marker)
	if i < 0 {
		return ""
	}
	rest := text[i+len(marker):]
	cut := len(rest)
	for _, k := range known {
		if k == marker {
			continue
		}
		if j := strings.Index(rest, k); j >= 0 && j < cut {
			cut = j
		}
	}
	return strings.TrimSpace(rest[:cut])
}

// ExtractAfterLine is the strict single-line variant of ExtractAfter:
// it captures only the remainder of the marker's line. Use it for
// rounds whose expected answers are single-line; the default elsewhere
// is ExtractAfter, since truncating a multi-line answer drops content.
func ExtractAfterLine(text, marker string) string {
	i := strings.Index(text, marker)
	if i < 0 {
		return ""
	}
	rest := text[i+len(marker):]
	if j := strings.IndexByte(rest, '\n'); j >= 0 {
		rest = rest[:j]
	}
	return strings.TrimSpace(rest)
}

// extractAnswer applies the configured mode for short answer fields.
func extractAnswer(text, marker string, mode ExtractMode) string {
	if mode == ModeSingleLine {
		return ExtractAfterLine(text, marker)
	}
	return ExtractAfter(text, marker, KnownMarkers...)
}

// ParseRoundOne builds a Round 1 answer from raw agent output. The
// final answer falls back to the NoAnswer sentinel; reasoning falls
// back to the full raw text so no signal is discarded.
func ParseRoundOne(id AgentID, raw string, mode ExtractMode) RoundOneAnswer {
	a := RoundOneAnswer{
		AgentID: id,
		RawText: raw,
	}

	a.FinalAnswer = extractAnswer(raw, MarkerFinalAnswer, mode)
	if a.FinalAnswer == "" {
		a.FinalAnswer = NoAnswer
	}

	a.Reasoning = ExtractAfter(raw, MarkerUnderstanding, KnownMarkers...)
	if a.Reasoning == "" {
		a.Reasoning = ExtractAfter(raw, MarkerApproach, KnownMarkers...)
	}
	if a.Reasoning == "" {
		a.Reasoning = strings.TrimSpace(raw)
	}

	return a
}

// ParseRoundTwo builds a Round 2 critique from raw agent output. The
// revised answer falls back to the agent's own Round 1 final answer
// rather than the sentinel, since a prior answer already exists.
func ParseRoundTwo(id AgentID, raw string, prior RoundOneAnswer, mode ExtractMode) RoundTwoCritique {
	c := RoundTwoCritique{
		AgentID: id,
		RawText: raw,
	}

	c.RevisedAnswer = extractAnswer(raw, MarkerRevisedAnswer, mode)
	if c.RevisedAnswer == "" {
		c.RevisedAnswer = prior.FinalAnswer
	}

	c.Critique = ExtractAfter(raw, MarkerCritique, KnownMarkers...)
	if c.Critique == "" {
		c.Critique = strings.TrimSpace(raw)
	}

	return c
}

// ParseVerdict builds the arbiter's ruling from raw output. The final
// answer falls back to the sentinel; the rationale falls back to the
// full raw text.
func ParseVerdict(raw string) Verdict {
	v := Verdict{
		FinalAnswer: ExtractAfter(raw, MarkerFinalAnswer, KnownMarkers...),
		Rationale:   ExtractAfter(raw, MarkerRationale, KnownMarkers...),
	}
	if v.FinalAnswer == "" {
		v.FinalAnswer = NoAnswer
	}
	if v.Rationale == "" {
		v.Rationale = strings.TrimSpace(raw)
	}
	return v
}
