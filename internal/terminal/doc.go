// Package terminal owns the keyboard side of an interactive devterm session.
//
// It has three layers:
//
//   - Tokens: raw bytes from a terminal in raw mode are decoded into Token
//     values (printable runes and named keys such as Enter, Escape, Ctrl-C).
//     Classify separates process-interrupt tokens from ordinary input.
//   - Sources: a Source delivers tokens on a channel and can be paused so
//     another reader (an interactive sign-in) can own stdin in cooked mode.
//     TTYSource is the real implementation over golang.org/x/term and
//     muesli/cancelreader.
//   - Session: the Session owns the single subscriber slot. It is either in
//     RawCommand mode (one command handler), LinePrompt mode (a line handler
//     plus an Escape listener) or Suspended (no handler). Switching modes
//     replaces the subscriber atomically, so the command handler and the
//     prompt handlers are never subscribed at the same time.
//
// A Session is not safe for concurrent use; it is driven from the single
// goroutine that runs the event loop.
package terminal
