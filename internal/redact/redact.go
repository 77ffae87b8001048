package redact

import "regexp"

const placeholder = "[REDACTED]"

type rule struct {
	name    string
	pattern *regexp.Regexp
}

// rules are heuristics for credentials that commonly end up in pasted code.
// Provider-specific rules come before the generic ones so counts attribute
// a match to the most precise rule.
var rules = []rule{
	{"private-key", regexp.MustCompile(`-----BEGIN\s+(RSA\s+|EC\s+|OPENSSH\s+)?PRIVATE KEY-----`)},
	{"anthropic-key", regexp.MustCompile(`sk-ant-[A-Za-z0-9_-]{20,}`)},
	{"openai-key", regexp.MustCompile(`sk-(proj-)?[A-Za-z0-9]{20,}`)},
	{"google-key", regexp.MustCompile(`AIza[0-9A-Za-z_-]{35}`)},
	{"github-token", regexp.MustCompile(`gh[pousr]_[A-Za-z0-9_]{36,}`)},
	{"slack-token", regexp.MustCompile(`xox[bporas]-[A-Za-z0-9-]{10,}`)},
	{"aws-access-key", regexp.MustCompile(`AKIA[0-9A-Z]{16}`)},
	{"jwt", regexp.MustCompile(`eyJ[A-Za-z0-9_-]{10,}\.eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`)},
	{"bearer", regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9._-]{20,}`)},
	{"api-key-assignment", regexp.MustCompile(`(?i)(api[_-]?key|apikey|api[_-]?secret)\s*[:=]\s*["']?([A-Za-z0-9/+=_-]{20,})["']?`)},
	{"secret-assignment", regexp.MustCompile(`(?i)(secret|token|password|passwd|credential)\s*[:=]\s*["']([^"']{8,})["']`)},
	{"hex-secret", regexp.MustCompile(`(?i)(key|secret|token)\s*[:=]\s*["']?[0-9a-f]{32,}["']?`)},
}

// Secrets replaces detected secrets in text with [REDACTED].
func Secrets(text string) string {
	out, _ := Scan(text)
	return out
}

// Scan redacts text and reports how many matches each rule replaced.
func Scan(text string) (string, map[string]int) {
	var counts map[string]int
	for _, r := range rules {
		text = r.pattern.ReplaceAllStringFunc(text, func(string) string {
			if counts == nil {
				counts = make(map[string]int)
			}
			counts[r.name]++
			return placeholder
		})
	}
	return text, counts
}
