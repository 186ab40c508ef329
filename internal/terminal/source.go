package terminal

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/muesli/cancelreader"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/muurk/devterm/internal/logging"
)

// Source delivers decoded tokens.
type Source interface {
	// Tokens returns the channel tokens are delivered on. It is closed when
	// the source reaches end of input or is closed.
	Tokens() <-chan Token
	// Pause stops reading and restores the terminal so another reader can use it.
	Pause() error
	// Resume continues reading after Pause.
	Resume() error
	// Close stops reading for good.
	Close() error
}

// TTYSource reads keypresses from a terminal in raw mode.
type TTYSource struct {
	file *os.File
	fd   int

	mu      sync.Mutex
	state   *term.State
	reader  cancelreader.CancelReader
	stop    chan struct{}
	done    chan struct{}
	running bool
	ended   atomic.Bool

	tokens    chan Token
	closeOnce sync.Once
}

// NewTTYSource creates a source over f, normally os.Stdin.
func NewTTYSource(f *os.File) *TTYSource {
	return &TTYSource{
		file: f,
		fd:   int(f.Fd()),
		// Buffer bursts such as pastes so the read loop rarely blocks
		tokens: make(chan Token, 64),
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Start puts the terminal into raw mode and starts reading.
func (s *TTYSource) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("terminal source already running")
	}
	if s.ended.Load() {
		return errors.New("terminal source has ended")
	}

	state, err := term.MakeRaw(s.fd)
	if err != nil {
		return fmt.Errorf("failed to set raw mode: %w", err)
	}

	reader, err := cancelreader.NewReader(s.file)
	if err != nil {
		_ = term.Restore(s.fd, state)
		return fmt.Errorf("failed to create input reader: %w", err)
	}

	s.state = state
	s.reader = reader
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	s.running = true

	go s.readLoop(reader, s.stop, s.done)

	return nil
}

// Tokens implements Source
func (s *TTYSource) Tokens() <-chan Token {
	return s.tokens
}

// Pause implements Source. It cancels the pending read, waits for the read
// loop to exit and restores the terminal state saved by Start.
func (s *TTYSource) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	close(s.stop)
	s.reader.Cancel()
	<-s.done

	if err := s.reader.Close(); err != nil {
		logging.Debug("Failed to close input reader", zap.Error(err))
	}
	if err := term.Restore(s.fd, s.state); err != nil {
		return fmt.Errorf("failed to restore terminal: %w", err)
	}
	s.state = nil
	return nil
}

// Resume implements Source
func (s *TTYSource) Resume() error {
	return s.Start()
}

// Close implements Source
func (s *TTYSource) Close() error {
	err := s.Pause()
	s.ended.Store(true)

	s.closeOnce.Do(func() { close(s.tokens) })
	return err
}

func (s *TTYSource) readLoop(r cancelreader.CancelReader, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	buf := make([]byte, 256)
	for {
		n, err := r.Read(buf)
		for _, tok := range Decode(buf[:n]) {
			select {
			case s.tokens <- tok:
			case <-stop:
				return
			}
		}
		if err == nil {
			continue
		}
		if errors.Is(err, cancelreader.ErrCanceled) {
			return
		}

		logging.Debug("Terminal input ended", zap.Error(err))
		s.ended.Store(true)
		s.closeOnce.Do(func() { close(s.tokens) })
		return
	}
}
