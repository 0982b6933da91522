package core

import "strings"

// NoAnswer is the sentinel substituted when an agent produced nothing
// usable for a required field.
const NoAnswer = "No answer provided"

// Section labels the round prompts instruct agents to emit and the
// extractor searches for. Prompts and extraction must stay in sync, so
// they all live here.
const (
	MarkerUnderstanding = "UNDERSTANDING:"
	MarkerApproach      = "APPROACH:"
	MarkerSolution      = "SOLUTION:"
	MarkerVerification  = "VERIFICATION:"
	MarkerFinalAnswer   = "FINAL ANSWER:"
	MarkerConfidence    = "CONFIDENCE:"
	MarkerCritique      = "CRITIQUE:"
	MarkerRevisedAnswer = "REVISED ANSWER:"
	MarkerRationale     = "RATIONALE:"
)

// RoundOneSections is the labeled output shape requested in Round 1.
var RoundOneSections = []string{
	MarkerUnderstanding,
	MarkerApproach,
	MarkerSolution,
	MarkerVerification,
	MarkerFinalAnswer,
	MarkerConfidence,
}

// KnownMarkers lists every section label used by any round. ExtractAfter
// stops at the nearest of these so a multi-line answer never bleeds into
// the next section.
var KnownMarkers = []string{
	MarkerUnderstanding,
	MarkerApproach,
	MarkerSolution,
	MarkerVerification,
	MarkerFinalAnswer,
	MarkerConfidence,
	MarkerCritique,
	MarkerRevisedAnswer,
	MarkerRationale,
}

// FallbackPayload returns the fixed text substituted for a soft-failed
// provider call. Every known marker is present with the sentinel after
// it, so downstream extraction always finds something and no round ever
// stalls on a misbehaving provider.
func FallbackPayload() string {
	var b strings.Builder
	for _, m := range KnownMarkers {
		b.WriteString(m)
		b.WriteString(" ")
		b.WriteString(NoAnswer)
		b.WriteString("\n")
	}
	return b.String()
}
