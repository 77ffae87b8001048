package review

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dshills/chorus/internal/providers"
)

// Focus selects the prompt template for a multi-provider review.
type Focus string

const (
	FocusArchitecture Focus = "architecture"
	FocusSecurity     Focus = "security"
	FocusQuality      Focus = "quality"
	FocusAll          Focus = "all"
)

// Focuses lists the recognized focus values.
var Focuses = []Focus{FocusArchitecture, FocusSecurity, FocusQuality, FocusAll}

var focusTemplates = map[Focus]string{
	FocusArchitecture: `Review the architecture and design of the following code. Look at module boundaries, coupling and cohesion, abstractions, data flow, and how easily it can be extended or tested.`,
	FocusSecurity:     `Perform a security review of the following code. Look for injection, unsafe input handling, authentication and authorization gaps, secret exposure, unsafe deserialization, and resource exhaustion.`,
	FocusQuality:      `Review the quality of the following code. Look at correctness, error handling, naming, readability, duplication, and test coverage.`,
	FocusAll:          `Perform a comprehensive code review of the following code covering architecture, security, and code quality.`,
}

// ParseFocus parses a focus name. Empty input selects FocusAll.
func ParseFocus(s string) (Focus, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FocusAll, nil
	}
	f := Focus(s)
	if _, ok := focusTemplates[f]; !ok {
		return "", fmt.Errorf("unknown focus %q (valid: %s)", s, strings.Join(FocusNames(), ", "))
	}
	return f, nil
}

// FocusNames returns the focus values as strings.
func FocusNames() []string {
	names := make([]string, len(Focuses))
	for i, f := range Focuses {
		names[i] = string(f)
	}
	return names
}

// FocusPrompt returns the instruction text for one reviewer: the focus
// template followed by the reviewer's role.
func FocusPrompt(focus Focus, role string) string {
	tmpl, ok := focusTemplates[focus]
	if !ok {
		tmpl = focusTemplates[FocusAll]
	}
	var b strings.Builder
	b.WriteString(tmpl)
	if role != "" {
		fmt.Fprintf(&b, "\nAs one of several reviewers, focus on %s.", role)
	}
	b.WriteString("\nBe concise and actionable. Reference the relevant lines and suggest concrete fixes.")
	return b.String()
}

// BuildPrompt returns the full text a reviewer receives.
func BuildPrompt(focus Focus, role, code string) string {
	return providers.JoinPrompt(FocusPrompt(focus, role), code)
}

// Truncate bounds code to maxBytes, cutting on a rune boundary and noting how
// much was dropped. A non-positive maxBytes disables the bound.
func Truncate(code string, maxBytes int) string {
	if maxBytes <= 0 || len(code) <= maxBytes {
		return code
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(code[cut]) {
		cut--
	}
	return fmt.Sprintf("%s\n... [truncated %d bytes]", code[:cut], len(code)-cut)
}
