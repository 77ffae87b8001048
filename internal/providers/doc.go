// Package providers implements the Client interface for each supported LLM
// backend.
//
// Supported providers, in registration order: Anthropic (Messages API),
// OpenAI (Chat Completions), and Google Gemini (generateContent).
//
// Each client knows one endpoint's request body, auth header and response
// envelope. Failures never escape a Client: they are returned as a [Result]
// carrying an [ErrorKind], so a failing provider degrades to data rather
// than aborting its caller. Transport failures and non-2xx statuses are
// ProviderUnavailable; a 2xx body that does not match the expected envelope
// is InvalidResponse. A missing API key short-circuits with
// MissingCredential before any request is built. There is no retry.
//
// Base URLs and HTTP clients are injectable so tests can point calls at
// local httptest servers.
package providers
