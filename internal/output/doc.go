// Package output formats multi-provider review reports for the command line.
//
// Three formats are supported:
//   - text: the same sectioned text the review tool returns to an agent
//   - markdown: one section per provider, failures folded into <details>
//   - json: the structured report with per-section timing
//
// Use [GetWriter] to obtain a [Writer] for a format string, or
// [WriteReport] to pick the destination as well.
package output
