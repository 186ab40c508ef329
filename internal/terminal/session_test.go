package terminal

import (
	"errors"
	"testing"
)

func TestSessionStartsSuspended(t *testing.T) {
	s := NewSession(NewChanSource(1))

	if s.Mode() != ModeSuspended {
		t.Errorf("Mode() = %v, want suspended", s.Mode())
	}
	if s.Deliver(Rune('a')) {
		t.Error("Deliver() should drop tokens while suspended")
	}
}

func TestSessionRawAndPromptAreExclusive(t *testing.T) {
	s := NewSession(NewChanSource(1))

	var got []string
	s.OnTransition(func(from, to Mode) {
		command, prompt := s.Subscribed()
		if command && prompt {
			t.Fatalf("both handlers subscribed after %v -> %v", from, to)
		}
		got = append(got, from.String()+">"+to.String())
	})

	var commands, lines, cancels int
	command := func(Token) { commands++ }
	line := func(Token) { lines++ }
	cancel := func(Token) { cancels++ }

	if err := s.EnterRaw(command); err != nil {
		t.Fatalf("EnterRaw() error = %v", err)
	}
	s.Deliver(Rune('e'))

	if err := s.EnterPrompt(line, cancel); err != nil {
		t.Fatalf("EnterPrompt() error = %v", err)
	}
	s.Deliver(Rune('x'))
	s.Deliver(Named(KeyEscape))

	if err := s.EnterRaw(command); err != nil {
		t.Fatalf("EnterRaw() error = %v", err)
	}
	s.Deliver(Named(KeyEscape))

	if commands != 2 || lines != 1 || cancels != 1 {
		t.Errorf("commands=%d lines=%d cancels=%d, want 2/1/1", commands, lines, cancels)
	}

	want := []string{"suspended>raw-command", "raw-command>line-prompt", "line-prompt>raw-command"}
	if len(got) != len(want) {
		t.Fatalf("transitions = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("transition[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestSessionSecondPromptRejected(t *testing.T) {
	s := NewSession(NewChanSource(1))
	noop := func(Token) {}

	if err := s.EnterPrompt(noop, noop); err != nil {
		t.Fatalf("EnterPrompt() error = %v", err)
	}
	if err := s.EnterPrompt(noop, noop); !errors.Is(err, ErrPromptActive) {
		t.Errorf("second EnterPrompt() error = %v, want ErrPromptActive", err)
	}
}

func TestSessionReleasePausesSource(t *testing.T) {
	src := NewChanSource(4)
	s := NewSession(src)

	var commands int
	if err := s.EnterRaw(func(Token) { commands++ }); err != nil {
		t.Fatal(err)
	}

	if err := s.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if !src.Paused() || !s.Released() {
		t.Error("Release() should pause the source")
	}
	if s.Mode() != ModeSuspended {
		t.Errorf("Mode() = %v, want suspended", s.Mode())
	}
	if err := s.Release(); err != nil {
		t.Errorf("second Release() error = %v", err)
	}

	if err := s.EnterRaw(func(Token) { commands++ }); err != nil {
		t.Fatalf("EnterRaw() error = %v", err)
	}
	pauses, resumes := src.Counts()
	if pauses != 1 || resumes != 1 {
		t.Errorf("pauses=%d resumes=%d, want 1/1", pauses, resumes)
	}
	if !s.Deliver(Rune('r')) || commands != 1 {
		t.Error("command handler should receive tokens after resuming")
	}
}

func TestSessionClose(t *testing.T) {
	src := NewChanSource(1)
	s := NewSession(src)
	if err := s.EnterRaw(func(Token) {}); err != nil {
		t.Fatal(err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, ok := <-s.Tokens(); ok {
		t.Error("token channel should be closed")
	}
	if err := s.EnterRaw(func(Token) {}); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("EnterRaw() after Close error = %v, want ErrSessionClosed", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestChanSourceDropsWhilePaused(t *testing.T) {
	src := NewChanSource(4)
	_ = src.Pause()
	src.Send(Rune('a'))
	_ = src.Resume()
	src.Send(Rune('b'))

	got := <-src.Tokens()
	if got != Rune('b') {
		t.Errorf("first token = %v, want b", got)
	}
}
