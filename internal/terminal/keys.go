package terminal

import (
	"unicode/utf8"
)

// Key identifies a decoded keypress.
type Key int

const (
	KeyUnknown Key = iota
	KeyRune
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyDelete
	KeyTab
	KeyCtrlC
	KeyCtrlD
	KeyCtrlL
	KeyCtrlU
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyAlt
)

var keyNames = map[Key]string{
	KeyUnknown:   "unknown",
	KeyEnter:     "enter",
	KeyEscape:    "escape",
	KeyBackspace: "backspace",
	KeyDelete:    "delete",
	KeyTab:       "tab",
	KeyCtrlC:     "ctrl+c",
	KeyCtrlD:     "ctrl+d",
	KeyCtrlL:     "ctrl+l",
	KeyCtrlU:     "ctrl+u",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyHome:      "home",
	KeyEnd:       "end",
}

// Token is a single decoded keypress. Rune is set for KeyRune and KeyAlt.
type Token struct {
	Key  Key
	Rune rune
}

// Rune returns a token for a printable character
func Rune(r rune) Token {
	return Token{Key: KeyRune, Rune: r}
}

// Named returns a token for a named key
func Named(k Key) Token {
	return Token{Key: k}
}

// String returns the character for rune tokens and the key name otherwise.
// Command tables are keyed by this value.
func (t Token) String() string {
	switch t.Key {
	case KeyRune:
		return string(t.Rune)
	case KeyAlt:
		return "alt+" + string(t.Rune)
	}
	if name, ok := keyNames[t.Key]; ok {
		return name
	}
	return "unknown"
}

// Class tells the router how a token must be handled.
type Class int

const (
	// ClassInput tokens go to whichever handler is subscribed.
	ClassInput Class = iota
	// ClassInterrupt tokens are forwarded as a process-level interrupt.
	ClassInterrupt
)

// Classify maps a token to its handling class. Ctrl-C and Ctrl-D arrive as
// data while the terminal is in raw mode; they are turned back into an
// interrupt here.
func Classify(t Token) Class {
	switch t.Key {
	case KeyCtrlC, KeyCtrlD:
		return ClassInterrupt
	default:
		return ClassInput
	}
}

// Decode converts a chunk of raw terminal input into tokens.
func Decode(b []byte) []Token {
	tokens := make([]Token, 0, len(b))

	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c == 0x1b:
			if i+1 < len(b) && (b[i+1] == '[' || b[i+1] == 'O') {
				n, tok := decodeEscapeSequence(b[i:])
				tokens = append(tokens, tok)
				i += n
				continue
			}
			// ESC followed by a printable character in the same read is an
			// Alt chord, not Escape then a key.
			if i+1 < len(b) && b[i+1] >= 0x20 && b[i+1] != 0x7f {
				r, size := utf8.DecodeRune(b[i+1:])
				tokens = append(tokens, Token{Key: KeyAlt, Rune: r})
				i += 1 + size
				continue
			}
			tokens = append(tokens, Named(KeyEscape))
			i++
		case c == '\r':
			tokens = append(tokens, Named(KeyEnter))
			i++
			if i < len(b) && b[i] == '\n' {
				i++
			}
		case c == '\n':
			tokens = append(tokens, Named(KeyEnter))
			i++
		case c == 0x7f || c == 0x08:
			tokens = append(tokens, Named(KeyBackspace))
			i++
		case c == 0x03:
			tokens = append(tokens, Named(KeyCtrlC))
			i++
		case c == 0x04:
			tokens = append(tokens, Named(KeyCtrlD))
			i++
		case c == 0x0c:
			tokens = append(tokens, Named(KeyCtrlL))
			i++
		case c == 0x15:
			tokens = append(tokens, Named(KeyCtrlU))
			i++
		case c == '\t':
			tokens = append(tokens, Named(KeyTab))
			i++
		case c < 0x20:
			tokens = append(tokens, Named(KeyUnknown))
			i++
		default:
			r, size := utf8.DecodeRune(b[i:])
			if r == utf8.RuneError && size <= 1 {
				tokens = append(tokens, Named(KeyUnknown))
				i++
				continue
			}
			tokens = append(tokens, Rune(r))
			i += size
		}
	}

	return tokens
}

// decodeEscapeSequence decodes a CSI or SS3 sequence at the start of b and
// returns the number of bytes consumed.
func decodeEscapeSequence(b []byte) (int, Token) {
	// Final byte of a CSI/SS3 sequence is in 0x40..0x7e
	end := 2
	for end < len(b) && (b[end] < 0x40 || b[end] > 0x7e) {
		end++
	}
	if end >= len(b) {
		return len(b), Named(KeyUnknown)
	}

	switch string(b[1 : end+1]) {
	case "[A", "OA":
		return end + 1, Named(KeyUp)
	case "[B", "OB":
		return end + 1, Named(KeyDown)
	case "[C", "OC":
		return end + 1, Named(KeyRight)
	case "[D", "OD":
		return end + 1, Named(KeyLeft)
	case "[H", "OH", "[1~", "[7~":
		return end + 1, Named(KeyHome)
	case "[F", "OF", "[4~", "[8~":
		return end + 1, Named(KeyEnd)
	case "[3~":
		return end + 1, Named(KeyDelete)
	default:
		return end + 1, Named(KeyUnknown)
	}
}
