package exporters

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mrlokans/weread-exporter/internal/export"
)

// JSONExporter writes the batch as indented UTF-8 JSON, preserving the
// aggregate structure.
type JSONExporter struct{}

func (JSONExporter) Export(w io.Writer, books []export.BookExport) error {
	if books == nil {
		books = []export.BookExport{}
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(books); err != nil {
		return fmt.Errorf("failed to encode export batch: %w", err)
	}
	return nil
}
