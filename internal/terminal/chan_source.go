package terminal

import "sync"

// ChanSource is an in-memory Source fed through Send. It backs headless
// sessions and tests.
type ChanSource struct {
	mu      sync.Mutex
	tokens  chan Token
	paused  bool
	closed  bool
	pauses  int
	resumes int
}

// NewChanSource creates a source with the given channel buffer.
func NewChanSource(buffer int) *ChanSource {
	return &ChanSource{tokens: make(chan Token, buffer)}
}

// Send queues tokens. Tokens sent while paused are discarded, the way a
// terminal in cooked mode would hand them to someone else.
func (c *ChanSource) Send(tokens ...Token) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.paused || c.closed {
		return
	}
	for _, tok := range tokens {
		c.tokens <- tok
	}
}

// Tokens implements Source
func (c *ChanSource) Tokens() <-chan Token {
	return c.tokens
}

// Pause implements Source
func (c *ChanSource) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = true
	c.pauses++
	return nil
}

// Resume implements Source
func (c *ChanSource) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = false
	c.resumes++
	return nil
}

// Close implements Source
func (c *ChanSource) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.tokens)
	}
	return nil
}

// Paused reports whether the source is paused
func (c *ChanSource) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

// Counts returns how many times the source was paused and resumed.
func (c *ChanSource) Counts() (pauses, resumes int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pauses, c.resumes
}
