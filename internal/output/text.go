package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/dshills/chorus/internal/review"
)

// TextWriter writes the rendered report followed by a one-line summary.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, report *review.CompositeReport) error {
	ew := &errWriter{w: w}
	ew.printf("%s", report.Render())
	ew.println("")
	ew.println(strings.Repeat("─", 60))
	ew.printf("%d of %d providers answered in %dms\n",
		report.Succeeded(), len(report.Sections), report.Elapsed.Milliseconds())
	return ew.err
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}
