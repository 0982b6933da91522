package export

import (
	"encoding/json"
	"io"

	"github.com/alienxp03/arbiter/internal/core"
)

// JSONExporter exports a debate result to JSON format.
type JSONExporter struct{}

// Export writes the result as indented JSON.
func (e *JSONExporter) Export(result *core.DebateResult, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return "json"
}
