package output

import (
	"io"
	"strings"

	"github.com/dshills/chorus/internal/review"
)

// MarkdownWriter outputs a PR-comment-friendly markdown report.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, report *review.CompositeReport) error {
	ew := &errWriter{w: w}
	ew.printf("# Multi-AI review\n\n")
	ew.printf("Focus: **%s**\n\n", report.Focus)

	ew.printf("| Provider | Role | Status | Time |\n")
	ew.printf("|----------|------|--------|------|\n")
	for _, s := range report.Sections {
		status := ":white_check_mark: ok"
		if !s.OK() {
			status = ":x: " + string(s.Kind)
		}
		ew.printf("| %s | %s | %s | %dms |\n", s.Provider, s.Role, status, s.Elapsed.Milliseconds())
	}
	ew.println("")

	for _, s := range report.Sections {
		ew.printf("%s\n\n", review.SectionHeading(s))
		if s.OK() {
			ew.printf("%s\n\n", strings.TrimSpace(s.Text))
			continue
		}
		ew.printf("<details>\n<summary>%s failed: %s</summary>\n\n", s.Provider, s.Kind)
		ew.printf("```\n%s\n```\n\n</details>\n\n", s.Message)
	}

	ew.printf("*Reviewed by %d of %d providers in %dms*\n",
		report.Succeeded(), len(report.Sections), report.Elapsed.Milliseconds())
	return ew.err
}
