package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/alienxp03/arbiter/internal/core"
)

// MarkdownExporter exports a debate result to Markdown format.
type MarkdownExporter struct{}

// Export writes the result as Markdown.
func (e *MarkdownExporter) Export(result *core.DebateResult, w io.Writer) error {
	var sb strings.Builder

	// Title
	sb.WriteString(fmt.Sprintf("# %s\n\n", result.Question))

	// Metadata
	sb.WriteString("## Debate Information\n\n")
	sb.WriteString(fmt.Sprintf("- **ID:** `%s`\n", result.ID))
	sb.WriteString(fmt.Sprintf("- **Created:** %s\n", result.CreatedAt.Format("January 2, 2006 at 3:04 PM")))
	sb.WriteString(fmt.Sprintf("- **Duration:** %s\n", formatDuration(result.Duration)))
	sb.WriteString(fmt.Sprintf("- **Participants:** %s\n", joinAgentIDs(result.ChosenFrom)))
	sb.WriteString("\n")

	// Verdict first; readers mostly want the ruling.
	sb.WriteString("## Verdict\n\n")
	sb.WriteString(fmt.Sprintf("**Final Answer:** %s\n\n", result.FinalAnswer))
	if result.FinalRationale != "" {
		sb.WriteString("### Rationale\n\n")
		sb.WriteString(result.FinalRationale)
		sb.WriteString("\n\n")
	}

	// Round 1
	sb.WriteString("## Round 1 - Independent Answers\n\n")
	for _, a := range result.RoundOne {
		sb.WriteString(fmt.Sprintf("### %s\n\n", a.AgentID))
		sb.WriteString(fmt.Sprintf("**Answer:** %s\n\n", a.FinalAnswer))
		if a.Reasoning != "" {
			sb.WriteString(a.Reasoning)
			sb.WriteString("\n\n")
		}
		sb.WriteString("---\n\n")
	}

	// Round 2
	sb.WriteString("## Round 2 - Critique and Revision\n\n")
	for _, c := range result.RoundTwo {
		sb.WriteString(fmt.Sprintf("### %s\n\n", c.AgentID))
		sb.WriteString(fmt.Sprintf("**Revised Answer:** %s\n\n", c.RevisedAnswer))
		if c.Critique != "" {
			sb.WriteString(c.Critique)
			sb.WriteString("\n\n")
		}
		sb.WriteString("---\n\n")
	}

	// Footer
	sb.WriteString("*Exported from arbiter*\n")

	_, err := w.Write([]byte(sb.String()))
	return err
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return "md"
}

func joinAgentIDs(ids []core.AgentID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, ", ")
}
