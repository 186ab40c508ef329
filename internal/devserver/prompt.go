package devserver

import (
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muurk/devterm/internal/terminal"
)

const recipientQuestion = "Email or phone number to send the link to:"

// promptSession is the line being edited while in line-prompt mode
type promptSession struct {
	line     textinput.Model
	fallback string
	closed   bool
}

func newPromptSession(fallback string) *promptSession {
	line := textinput.New()
	line.Prompt = "> "
	line.Placeholder = fallback
	line.CharLimit = 256
	line.Cursor.SetMode(cursor.CursorStatic)
	line.Focus()
	return &promptSession{line: line, fallback: fallback}
}

// edit applies one editing key to the line
func (p *promptSession) edit(tok terminal.Token) {
	msg, ok := keyMsg(tok)
	if !ok {
		return
	}
	p.line, _ = p.line.Update(msg)
}

func (p *promptSession) value() string {
	return p.line.Value()
}

func (p *promptSession) view() string {
	return p.line.View()
}

// keyMsg converts a token into the key message the line editor understands
func keyMsg(tok terminal.Token) (tea.KeyMsg, bool) {
	switch tok.Key {
	case terminal.KeyRune:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{tok.Rune}}, true
	case terminal.KeyBackspace:
		return tea.KeyMsg{Type: tea.KeyBackspace}, true
	case terminal.KeyDelete:
		return tea.KeyMsg{Type: tea.KeyDelete}, true
	case terminal.KeyLeft:
		return tea.KeyMsg{Type: tea.KeyLeft}, true
	case terminal.KeyRight:
		return tea.KeyMsg{Type: tea.KeyRight}, true
	case terminal.KeyHome:
		return tea.KeyMsg{Type: tea.KeyHome}, true
	case terminal.KeyEnd:
		return tea.KeyMsg{Type: tea.KeyEnd}, true
	case terminal.KeyCtrlU:
		return tea.KeyMsg{Type: tea.KeyCtrlU}, true
	default:
		return tea.KeyMsg{}, false
	}
}

// openPrompt switches to line-prompt mode and shows the recipient question
func (c *Controller) openPrompt(fallback string) error {
	p := newPromptSession(fallback)
	if err := c.input.EnterPrompt(c.onPromptKey, c.onPromptCancel); err != nil {
		return err
	}
	c.prompt = p
	c.drawPrompt(p)
	return nil
}

func (c *Controller) drawPrompt(p *promptSession) {
	c.console.Clear()
	c.console.PrintPrompt(recipientQuestion, p.fallback)
	c.console.RedrawLine(p.view())
}

// onPromptKey is the line-prompt handler
func (c *Controller) onPromptKey(tok terminal.Token) {
	p := c.prompt
	if p == nil || p.closed {
		return
	}
	switch tok.Key {
	case terminal.KeyEnter:
		c.submitPrompt(p)
		return
	case terminal.KeyCtrlL:
		c.drawPrompt(p)
		return
	}
	p.edit(tok)
	c.console.RedrawLine(p.view())
}

// onPromptCancel is the Escape listener of the line prompt
func (c *Controller) onPromptCancel(terminal.Token) {
	p := c.prompt
	if p == nil || p.closed {
		return
	}
	c.closePrompt(p)
	if err := c.enterRaw(); err != nil {
		c.fail(err)
		return
	}
	c.console.PrintHelp()
}

func (c *Controller) submitPrompt(p *promptSession) {
	submitted := p.value()
	c.closePrompt(p)
	if err := c.enterRaw(); err != nil {
		c.fail(err)
		return
	}

	recipient := resolveRecipient(submitted, p.fallback)
	if recipient == "" {
		c.console.PrintHelp()
		return
	}
	c.sendLink(recipient)
}

func (c *Controller) closePrompt(p *promptSession) {
	p.closed = true
	c.prompt = nil
	c.console.Newline()
}
