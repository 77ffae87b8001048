// Package review fans a code review out to several providers and collates
// the answers.
//
// Prompt construction is pure: [FocusPrompt] and [BuildPrompt] map a focus
// (architecture, security, quality, all) and a reviewer role to the text a
// provider receives, and [Truncate] applies the configured input bound.
//
// [Aggregator.Review] is a join-all scatter/gather. Every member runs in its
// own goroutine and writes a pre-allocated slot, so the [CompositeReport]
// lists sections in member order no matter which provider answers first.
// There is no internal deadline; callers bound latency through the context
// or the HTTP client timeout.
package review
