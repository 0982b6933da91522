package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/alienxp03/arbiter/internal/core"
)

// PDFExporter exports a debate result to PDF format.
type PDFExporter struct{}

// Export writes the result as PDF.
func (e *PDFExporter) Export(result *core.DebateResult, w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	pdf.AddPage()

	// Title
	pdf.SetFont("Arial", "B", 18)
	pdf.MultiCell(0, 10, e.sanitizeText(result.Question), "", "C", false)
	pdf.Ln(5)

	// Metadata section
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Debate Information")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	id := result.ID
	if len(id) > 8 {
		id = id[:8] + "..."
	}
	e.addMetadataRow(pdf, "ID:", id)
	e.addMetadataRow(pdf, "Created:", result.CreatedAt.Format("January 2, 2006 at 3:04 PM"))
	e.addMetadataRow(pdf, "Duration:", formatDuration(result.Duration))
	e.addMetadataRow(pdf, "Participants:", joinAgentIDs(result.ChosenFrom))
	pdf.Ln(5)

	// Verdict
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Verdict")
	pdf.Ln(8)

	pdf.SetFillColor(200, 255, 200) // Light green
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 7, "Final Answer", "", 1, "", true, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(255, 255, 255)
	pdf.MultiCell(0, 5, e.sanitizeText(result.FinalAnswer), "", "", false)
	pdf.Ln(3)

	if result.FinalRationale != "" {
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(0, 6, "Rationale:")
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(0, 5, e.sanitizeText(result.FinalRationale), "", "", false)
		pdf.Ln(5)
	}

	// Round 1
	e.addRoundHeading(pdf, "Round 1 - Independent Answers")
	for _, a := range result.RoundOne {
		e.addAgentBlock(pdf, string(a.AgentID), a.FinalAnswer, a.Reasoning, 200, 230, 255) // Light blue
	}

	// Round 2
	e.addRoundHeading(pdf, "Round 2 - Critique and Revision")
	for _, c := range result.RoundTwo {
		e.addAgentBlock(pdf, string(c.AgentID), c.RevisedAnswer, c.Critique, 255, 240, 200) // Light amber
	}

	// Footer
	pdf.SetY(-15)
	pdf.SetFont("Arial", "I", 8)
	pdf.CellFormat(0, 10, "Exported from arbiter", "", 0, "C", false, 0, "")

	return pdf.Output(w)
}

// FileExtension returns the file extension for PDF.
func (e *PDFExporter) FileExtension() string {
	return "pdf"
}

func (e *PDFExporter) addRoundHeading(pdf *gofpdf.Fpdf, title string) {
	if pdf.GetY() > 250 {
		pdf.AddPage()
	}
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)
}

// Helper to add one agent's contribution with a colored header
func (e *PDFExporter) addAgentBlock(pdf *gofpdf.Fpdf, agentID, answer, body string, r, g, b int) {
	if pdf.GetY() > 250 {
		pdf.AddPage()
	}

	pdf.SetFillColor(r, g, b)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 7, fmt.Sprintf("%s: %s", agentID, e.sanitizeText(answer)), "", 1, "", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	pdf.SetFillColor(255, 255, 255)
	if body != "" {
		pdf.MultiCell(0, 5, e.sanitizeText(body), "", "", false)
	}
	pdf.Ln(5)
}

// Helper to add a metadata row
func (e *PDFExporter) addMetadataRow(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(30, 5, label)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 5, value)
	pdf.Ln(5)
}

// Sanitize text for PDF (remove problematic characters)
func (e *PDFExporter) sanitizeText(text string) string {
	// gofpdf uses Windows-1252 encoding by default
	// Replace common Unicode characters that might cause issues
	replacer := strings.NewReplacer(
		"‘", "'", // Left single quote
		"’", "'", // Right single quote
		"“", "\"", // Left double quote
		"”", "\"", // Right double quote
		"–", "-", // En dash
		"—", "--", // Em dash
		"…", "...", // Ellipsis
		"•", "*", // Bullet
		" ", " ", // Non-breaking space
	)
	return replacer.Replace(text)
}
