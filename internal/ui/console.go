package ui

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/mdp/qrterminal/v3"
)

// Clear sequences. Windows terminals do not understand the scrollback erase.
const (
	clearScreenWindows = "\x1b[2J\x1b[0f"
	clearScreenANSI    = "\x1b[2J\x1b[3J\x1b[H"
	clearLine          = "\r\x1b[2K"
)

// QRRenderer writes a scannable representation of text to w.
type QRRenderer func(w io.Writer, text string)

// TerminalQR renders a compact half-block QR code.
func TerminalQR(w io.Writer, text string) {
	qrterminal.GenerateHalfBlock(text, qrterminal.L, w)
}

// Console writes banners and status lines to a terminal.
type Console struct {
	out  io.Writer
	goos string
	qr   QRRenderer
}

// NewConsole creates a console that writes to w.
// If w is nil, os.Stdout is used.
func NewConsole(w io.Writer) *Console {
	if w == nil {
		w = os.Stdout
	}
	return &Console{
		out:  w,
		goos: runtime.GOOS,
		qr:   TerminalQR,
	}
}

// WithPlatform overrides the platform used for platform-conditional output.
func (c *Console) WithPlatform(goos string) *Console {
	c.goos = goos
	return c
}

// WithQR overrides the QR renderer. A nil renderer disables QR codes.
func (c *Console) WithQR(qr QRRenderer) *Console {
	c.qr = qr
	return c
}

// Platform returns the platform the console renders for
func (c *Console) Platform() string {
	return c.goos
}

// Clear clears the screen and scrollback
func (c *Console) Clear() {
	if c.goos == "windows" {
		c.print(clearScreenWindows)
		return
	}
	c.print(clearScreenANSI)
}

// Status prints a transient "doing X" line
func (c *Console) Status(msg string) {
	c.println(StatusStyle.Render(msg))
}

// Info prints a plain line
func (c *Console) Info(msg string) {
	c.println(msg)
}

// Success prints a confirmation line
func (c *Console) Success(msg string) {
	c.println(SuccessStyle.Render(SuccessMarker + " " + msg))
}

// Notice prints a highlighted line
func (c *Console) Notice(msg string) {
	c.println(NoticeStyle.Render(msg))
}

// Error prints an inline failure
func (c *Console) Error(msg string) {
	c.println(ErrorStyle.Render(FailureMarker + " " + msg))
}

// Newline prints an empty line
func (c *Console) Newline() {
	c.println("")
}

// PrintHelp prints the short help banner
func (c *Console) PrintHelp() {
	c.println(HelpLine())
}

// PrintUsage prints the full key legend
func (c *Console) PrintUsage(state UsageState) {
	c.println(RenderUsage(state, c.goos))
}

// PrintServerInfo prints the QR code of the project URL followed by the
// server-info banner.
func (c *Console) PrintServerInfo(info ServerInfo) {
	if info.URL != "" && c.qr != nil {
		c.qr(c.out, info.URL)
		c.Newline()
	}
	c.println(RenderServerInfo(info, c.goos))
}

// PrintPrompt prints the question of a line prompt. The fallback, when set,
// is shown as the value Enter submits.
func (c *Console) PrintPrompt(question, fallback string) {
	line := PromptStyle.Render("?") + " " + HeadingStyle.Render(question)
	if fallback != "" {
		line += " " + StatusStyle.Render(fmt.Sprintf("(Enter for %s)", fallback))
	}
	c.println(line)
	c.println(StatusStyle.Render("  Press Esc to cancel."))
}

// RedrawLine replaces the current line with content
func (c *Console) RedrawLine(content string) {
	c.print(clearLine + content)
}

func (c *Console) print(s string) {
	_, _ = fmt.Fprint(c.out, s)
}

func (c *Console) println(s string) {
	_, _ = fmt.Fprintln(c.out, s)
}
