package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dshills/chorus/internal/review"
)

// Formats lists the supported format names.
var Formats = []string{"text", "markdown", "json"}

// Writer writes a report in a specific format.
type Writer interface {
	Write(w io.Writer, report *review.CompositeReport) error
}

// GetWriter returns a writer for the specified format.
func GetWriter(format string) (Writer, error) {
	switch strings.ToLower(format) {
	case "", "text":
		return &TextWriter{}, nil
	case "markdown", "md":
		return &MarkdownWriter{}, nil
	case "json":
		return &JSONWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (valid: %s)", format, strings.Join(Formats, ", "))
	}
}

// WriteReport writes the report to outPath, or to stdout when outPath is
// empty.
func WriteReport(report *review.CompositeReport, format, outPath string) error {
	writer, err := GetWriter(format)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	return writer.Write(w, report)
}
