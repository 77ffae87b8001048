package review

import (
	"fmt"
	"strings"
	"time"

	"github.com/dshills/chorus/internal/providers"
)

// CompositeReport is the ordered, per-provider result of a multi-provider
// review. It always has one section per member.
type CompositeReport struct {
	Focus    Focus              `json:"focus"`
	Sections []providers.Result `json:"sections"`
	Elapsed  time.Duration      `json:"elapsed"`
}

// Succeeded counts sections that produced text.
func (r *CompositeReport) Succeeded() int {
	n := 0
	for _, s := range r.Sections {
		if s.OK() {
			n++
		}
	}
	return n
}

// Failed counts sections that carry an error kind.
func (r *CompositeReport) Failed() int {
	return len(r.Sections) - r.Succeeded()
}

// SectionHeading is the fixed heading for one provider's section.
func SectionHeading(s providers.Result) string {
	if s.Role == "" {
		return "## " + s.Provider
	}
	return fmt.Sprintf("## %s (%s)", s.Provider, s.Role)
}

// SectionBody is the section text, or the error rendered as
// "[Kind] message".
func SectionBody(s providers.Result) string {
	if s.OK() {
		return strings.TrimSpace(s.Text)
	}
	return fmt.Sprintf("[%s] %s", s.Kind, s.Message)
}

// Render produces the sectioned text returned to the calling agent.
func (r *CompositeReport) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Multi-AI review (focus: %s)\n", r.Focus)
	for _, s := range r.Sections {
		b.WriteString("\n")
		b.WriteString(SectionHeading(s))
		b.WriteString("\n\n")
		b.WriteString(SectionBody(s))
		b.WriteString("\n")
	}
	return b.String()
}
