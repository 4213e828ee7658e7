package orchestrator

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Yates-Labs/postcraft/internal/extract"
)

// ExportFormat represents supported export formats
type ExportFormat string

const (
	FormatJSON ExportFormat = "json"
)

// PostExport is the exported form of a generated post
type PostExport struct {
	Index  int             `json:"index"`
	Post   string          `json:"post"`
	Length int             `json:"length"`
	Raw    json.RawMessage `json:"raw,omitempty"`
}

// ExportPosts writes posts in the requested format
func ExportPosts(posts []extract.Post, format string, writer io.Writer) error {
	exportFormat := ExportFormat(strings.ToLower(format))
	if exportFormat != FormatJSON {
		return fmt.Errorf("unsupported export format: %s (supported: json)", format)
	}

	exports := make([]PostExport, len(posts))
	for i, p := range posts {
		exports[i] = PostExport{
			Index:  i + 1,
			Post:   p.Text,
			Length: len([]rune(p.Text)),
			Raw:    p.Raw,
		}
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(exports)
}
