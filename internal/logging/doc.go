// Package logging provides structured logging for devterm.
//
// This package wraps a global zap logger with convenience functions. The
// logger is silent by default so that the interactive console owns the
// terminal; set DEVTERM_LOG_LEVEL (or pass --log-level) to enable it.
//
// # Log Levels
//
//   - Debug: key dispatch, input mode transitions, detached task results
//   - Info: session start/stop, external operations started
//   - Warn: recoverable problems (mDNS advertisement failed, etc.)
//   - Error: failed sign-in and other failures worth surfacing to log filters
//
// # Structured Logging
//
//	logging.Info("Bundler restart requested",
//	    zap.String("project", dir),
//	    zap.Bool("reset", true),
//	)
//
// # Configuration
//
//	if err := logging.Initialize(level); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// Logs are written to stderr in console format. Redirect stderr to a file
// while running an interactive session to keep the screen clean:
//
//	DEVTERM_LOG_LEVEL=debug devterm start 2>devterm.log
package logging
