// Package tools is the tool registry and dispatcher.
//
// A [Registry] is built once from a static table of [Entry] values and
// never changes. [Builtin] produces the table: one ask_<provider> tool per
// configured client and the multi_ai_review aggregate tool.
//
// [Dispatcher.Invoke] resolves the tool, validates arguments against its
// [ParameterSpec] (required fields must be present, unknown fields are
// ignored, enum values are checked), and runs the handler. Unknown tools,
// invalid arguments and handler panics come back as a [Result] with an
// error kind; the dispatcher never lets one call take the process down.
package tools
