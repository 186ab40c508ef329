// Package devserver is the interactive control surface of a running dev
// server session.
//
// A Controller owns the terminal input session and routes single-key
// commands typed in raw mode to the operations in Ops: opening the project
// on a device, toggling the build mode, restarting the bundler, sending a
// link and signing in or out. The `e` command switches the terminal into a
// line prompt to collect the recipient of the link; Escape cancels it.
//
// # Concurrency
//
// Everything that touches the console or the input mode runs on the
// goroutine executing Controller.Run. Operations that may block run on their
// own goroutine and hand a completion back to the loop, so the router keeps
// dispatching keys while they are in flight. Detached tasks (opening the
// browser, restarting the bundler) never report back; their failures are
// only logged.
//
// # Errors
//
// Failures of external operations are printed inline and followed by the
// short help. Failures to read or write settings are not recoverable here:
// they end Run with a *SettingsError.
package devserver
