package platform

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter asks the user for sign-in details on a cooked terminal
type Prompter interface {
	Ask(question string) (string, error)
	AskSecret(question string) (string, error)
}

// TerminalPrompter reads answers line by line. Secrets are read without
// echo when the input is a terminal.
type TerminalPrompter struct {
	in     *bufio.Reader
	out    io.Writer
	secret func() ([]byte, error)
}

// NewTerminalPrompter creates a prompter over in and out. Nil arguments
// default to os.Stdin and os.Stdout.
func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	p := &TerminalPrompter{in: bufio.NewReader(in), out: out}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		p.secret = func() ([]byte, error) { return term.ReadPassword(fd) }
	}
	return p
}

// Ask prints question and returns the trimmed answer
func (p *TerminalPrompter) Ask(question string) (string, error) {
	_, _ = fmt.Fprintf(p.out, "%s ", question)
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// AskSecret prints question and reads an answer without echo
func (p *TerminalPrompter) AskSecret(question string) (string, error) {
	if p.secret == nil {
		return p.Ask(question)
	}
	_, _ = fmt.Fprintf(p.out, "%s ", question)
	data, err := p.secret()
	_, _ = fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// InteractiveLogin walks the user through signing in, or registering when
// they have no account yet, and returns the signed-in username.
func (c *Client) InteractiveLogin(ctx context.Context) (string, error) {
	p := c.Prompter

	answer, err := p.Ask("Do you have an account? [Y/n]")
	if err != nil {
		return "", fmt.Errorf("failed to read answer: %w", err)
	}
	if strings.HasPrefix(strings.ToLower(answer), "n") {
		return c.interactiveRegister(ctx, p)
	}

	username, err := p.Ask("Username or email:")
	if err != nil {
		return "", fmt.Errorf("failed to read username: %w", err)
	}
	if username == "" {
		return "", NewValidationError("username must not be empty")
	}
	password, err := p.AskSecret("Password:")
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if password == "" {
		return "", NewValidationError("password must not be empty")
	}

	return c.Login(ctx, username, password)
}

func (c *Client) interactiveRegister(ctx context.Context, p Prompter) (string, error) {
	email, err := p.Ask("Email address:")
	if err != nil {
		return "", fmt.Errorf("failed to read email: %w", err)
	}
	if !strings.Contains(email, "@") {
		return "", NewValidationError("a valid email address is required")
	}
	username, err := p.Ask("Username:")
	if err != nil {
		return "", fmt.Errorf("failed to read username: %w", err)
	}
	if username == "" {
		return "", NewValidationError("username must not be empty")
	}
	password, err := p.AskSecret("Password:")
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	confirm, err := p.AskSecret("Confirm password:")
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if password == "" || password != confirm {
		return "", NewValidationError("passwords do not match")
	}

	return c.Register(ctx, email, username, password)
}
