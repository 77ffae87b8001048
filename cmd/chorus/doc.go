// Chorus is an MCP tool server that lets a coding agent consult several AI
// providers. It exposes one ask tool per provider and a multi_ai_review tool
// that sends the same code to every provider in parallel, each with its own
// review role, and returns one section per provider.
//
// Usage:
//
//	chorus serve                          # MCP server on stdin/stdout
//	chorus tools                          # list tools and their parameters
//	chorus ask openai "Explain this" --code-file main.go
//	chorus review --focus security < main.go
//	chorus config init                    # write a default config file
//
// API keys are read from ANTHROPIC_API_KEY, OPENAI_API_KEY and
// GEMINI_API_KEY, or from a .env file.
package main
