package devserver

import (
	"errors"
	"fmt"
)

// ErrAlreadyStarted is returned by Start when the controller is running
var ErrAlreadyStarted = errors.New("controller already started")

// SettingsError reports a failure to read or write persisted settings.
// It ends the session.
type SettingsError struct {
	// Op describes what was being read or written
	Op string
	// Underlying error
	Err error
}

func (e *SettingsError) Error() string {
	return fmt.Sprintf("settings: failed to %s: %v", e.Op, e.Err)
}

func (e *SettingsError) Unwrap() error {
	return e.Err
}

func settingsErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &SettingsError{Op: op, Err: err}
}
