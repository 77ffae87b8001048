// Package redact removes secrets from code before it is sent to any LLM
// provider.
//
// Detection uses regex heuristics covering common secret shapes: provider
// API keys (Anthropic, OpenAI, Google), GitHub and Slack tokens, AWS access
// key IDs, JWTs, bearer tokens, private key headers, and generic
// key/secret/password assignments. [Scan] also reports per-rule match
// counts for logging.
package redact
