package output

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/dshills/chorus/internal/review"
)

var codec = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONWriter outputs the report as structured JSON.
type JSONWriter struct{}

type jsonReport struct {
	Focus     string        `json:"focus"`
	ElapsedMs int64         `json:"elapsedMs"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Sections  []jsonSection `json:"sections"`
}

type jsonSection struct {
	Provider   string `json:"provider"`
	Role       string `json:"role,omitempty"`
	Text       string `json:"text,omitempty"`
	ErrorKind  string `json:"errorKind,omitempty"`
	Message    string `json:"message,omitempty"`
	TokensUsed int    `json:"tokensUsed,omitempty"`
	ElapsedMs  int64  `json:"elapsedMs"`
}

func (j *JSONWriter) Write(w io.Writer, report *review.CompositeReport) error {
	out := jsonReport{
		Focus:     string(report.Focus),
		ElapsedMs: report.Elapsed.Milliseconds(),
		Succeeded: report.Succeeded(),
		Failed:    report.Failed(),
		Sections:  make([]jsonSection, len(report.Sections)),
	}
	for i, s := range report.Sections {
		out.Sections[i] = jsonSection{
			Provider:   s.Provider,
			Role:       s.Role,
			Text:       s.Text,
			ErrorKind:  string(s.Kind),
			Message:    s.Message,
			TokensUsed: s.TokensUsed,
			ElapsedMs:  s.Elapsed.Milliseconds(),
		}
	}

	data, err := codec.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing JSON: %w", err)
	}
	_, err = fmt.Fprintln(w)
	return err
}
