package terminal

import (
	"errors"
	"fmt"

	"github.com/muurk/devterm/internal/logging"
)

// Mode is the listening mode of a Session.
type Mode int

const (
	// ModeSuspended has no subscriber; tokens are dropped.
	ModeSuspended Mode = iota
	// ModeRawCommand routes every token to the command handler.
	ModeRawCommand
	// ModeLinePrompt routes tokens to a line handler, Escape to a cancel listener.
	ModeLinePrompt
)

func (m Mode) String() string {
	switch m {
	case ModeSuspended:
		return "suspended"
	case ModeRawCommand:
		return "raw-command"
	case ModeLinePrompt:
		return "line-prompt"
	default:
		return fmt.Sprintf("Mode(%d)", m)
	}
}

var (
	// ErrPromptActive is returned when a prompt is entered while another is active.
	ErrPromptActive = errors.New("a prompt is already active")
	// ErrSessionClosed is returned for transitions after Close.
	ErrSessionClosed = errors.New("input session is closed")
)

// Handler receives one token.
type Handler func(Token)

// Session owns the subscription to a token Source.
type Session struct {
	src  Source
	mode Mode

	command Handler
	line    Handler
	cancel  Handler

	released bool
	closed   bool

	onTransition func(from, to Mode)
}

// NewSession creates a suspended session over src.
func NewSession(src Source) *Session {
	return &Session{src: src, mode: ModeSuspended}
}

// Tokens returns the token channel of the underlying source.
func (s *Session) Tokens() <-chan Token {
	return s.src.Tokens()
}

// Mode returns the current listening mode
func (s *Session) Mode() Mode {
	return s.mode
}

// Released reports whether the terminal has been handed to another reader.
func (s *Session) Released() bool {
	return s.released
}

// Subscribed reports which handlers are currently attached.
func (s *Session) Subscribed() (command, prompt bool) {
	return s.command != nil, s.line != nil || s.cancel != nil
}

// OnTransition registers a callback invoked after every mode change.
func (s *Session) OnTransition(fn func(from, to Mode)) {
	s.onTransition = fn
}

// EnterRaw subscribes the command handler, detaching any prompt handlers.
// A released source is resumed first.
func (s *Session) EnterRaw(h Handler) error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.released {
		if err := s.src.Resume(); err != nil {
			return fmt.Errorf("failed to resume terminal input: %w", err)
		}
		s.released = false
	}

	s.line, s.cancel = nil, nil
	s.command = h
	s.transition(ModeRawCommand)
	return nil
}

// EnterPrompt detaches the command handler and subscribes the line handler
// and the cancel listener.
func (s *Session) EnterPrompt(line, cancel Handler) error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.mode == ModeLinePrompt {
		return ErrPromptActive
	}
	if s.released {
		if err := s.src.Resume(); err != nil {
			return fmt.Errorf("failed to resume terminal input: %w", err)
		}
		s.released = false
	}

	s.command = nil
	s.line, s.cancel = line, cancel
	s.transition(ModeLinePrompt)
	return nil
}

// Suspend detaches every handler. The source keeps running and tokens that
// arrive meanwhile are dropped.
func (s *Session) Suspend() {
	s.command, s.line, s.cancel = nil, nil, nil
	s.transition(ModeSuspended)
}

// Release suspends the session and pauses the source, giving the terminal
// back in cooked mode to whoever needs to read stdin.
func (s *Session) Release() error {
	if s.closed {
		return ErrSessionClosed
	}
	s.Suspend()
	if s.released {
		return nil
	}
	if err := s.src.Pause(); err != nil {
		return fmt.Errorf("failed to release terminal input: %w", err)
	}
	s.released = true
	return nil
}

// Deliver routes tok to the subscribed handler and reports whether anyone
// received it.
func (s *Session) Deliver(tok Token) bool {
	switch s.mode {
	case ModeRawCommand:
		if s.command != nil {
			s.command(tok)
			return true
		}
	case ModeLinePrompt:
		if tok.Key == KeyEscape {
			if s.cancel != nil {
				s.cancel(tok)
				return true
			}
			return false
		}
		if s.line != nil {
			s.line(tok)
			return true
		}
	}
	return false
}

// Close detaches every handler and closes the source.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.Suspend()
	s.closed = true
	return s.src.Close()
}

func (s *Session) transition(to Mode) {
	from := s.mode
	s.mode = to
	if from == to {
		return
	}
	logging.LogModeTransition(from.String(), to.String())
	if s.onTransition != nil {
		s.onTransition(from, to)
	}
}
