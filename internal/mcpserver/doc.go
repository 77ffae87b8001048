// Package mcpserver binds the tool dispatcher to the Model Context Protocol
// over stdio.
//
// Each registered tool becomes an MCP tool whose input schema is generated
// from its parameter spec. Calls are forwarded to the dispatcher and its
// result is returned as text, with isError set when the dispatcher reports
// an error kind. The server keeps no state between calls and exits cleanly
// when its input closes.
package mcpserver
