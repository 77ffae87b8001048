// Package cli wires together the Cobra command tree for the chorus binary.
//
// serve runs the MCP tool server on stdio. tools, ask and review exercise
// the same dispatcher from a terminal, and config manages the YAML config
// file. Commands return deterministic exit codes.
package cli
