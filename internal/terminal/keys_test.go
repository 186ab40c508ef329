package terminal

import (
	"reflect"
	"testing"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Token
	}{
		{
			name:  "single command key",
			input: "a",
			want:  []Token{Rune('a')},
		},
		{
			name:  "shifted keys stay distinct",
			input: "dD",
			want:  []Token{Rune('d'), Rune('D')},
		},
		{
			name:  "control keys",
			input: "\x03\x04\x0c\x15",
			want:  []Token{Named(KeyCtrlC), Named(KeyCtrlD), Named(KeyCtrlL), Named(KeyCtrlU)},
		},
		{
			name:  "carriage return line feed is one enter",
			input: "x\r\n",
			want:  []Token{Rune('x'), Named(KeyEnter)},
		},
		{
			name:  "lone escape",
			input: "\x1b",
			want:  []Token{Named(KeyEscape)},
		},
		{
			name:  "alt chord is one token",
			input: "\x1bq",
			want:  []Token{{Key: KeyAlt, Rune: 'q'}},
		},
		{
			name:  "alt chord then text",
			input: "\x1bé@",
			want:  []Token{{Key: KeyAlt, Rune: 'é'}, Rune('@')},
		},
		{
			name:  "escape before a control key stays escape",
			input: "\x1b\r",
			want:  []Token{Named(KeyEscape), Named(KeyEnter)},
		},
		{
			name:  "double escape",
			input: "\x1b\x1b",
			want:  []Token{Named(KeyEscape), Named(KeyEscape)},
		},
		{
			name:  "arrow keys are not escape",
			input: "\x1b[D\x1b[C\x1bOH",
			want:  []Token{Named(KeyLeft), Named(KeyRight), Named(KeyHome)},
		},
		{
			name:  "delete and backspace",
			input: "\x1b[3~\x7f\x08",
			want:  []Token{Named(KeyDelete), Named(KeyBackspace), Named(KeyBackspace)},
		},
		{
			name:  "unknown sequence",
			input: "\x1b[15~",
			want:  []Token{Named(KeyUnknown)},
		},
		{
			name:  "truncated sequence",
			input: "\x1b[",
			want:  []Token{Named(KeyUnknown)},
		},
		{
			name:  "utf-8 text",
			input: "né@",
			want:  []Token{Rune('n'), Rune('é'), Rune('@')},
		},
		{
			name:  "invalid utf-8",
			input: "\xff",
			want:  []Token{Named(KeyUnknown)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decode([]byte(tt.input))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Decode(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	interrupts := []Token{Named(KeyCtrlC), Named(KeyCtrlD)}
	for _, tok := range interrupts {
		if Classify(tok) != ClassInterrupt {
			t.Errorf("Classify(%v) should be an interrupt", tok)
		}
	}

	inputs := []Token{Rune('c'), Rune('d'), Named(KeyCtrlL), Named(KeyEscape), Named(KeyEnter), {Key: KeyAlt, Rune: 'c'}}
	for _, tok := range inputs {
		if Classify(tok) != ClassInput {
			t.Errorf("Classify(%v) should be ordinary input", tok)
		}
	}
}

func TestTokenString(t *testing.T) {
	tests := map[Token]string{
		Rune('?'):                "?",
		Rune('R'):                "R",
		Named(KeyEscape):         "escape",
		Named(KeyCtrlL):          "ctrl+l",
		{Key: KeyAlt, Rune: 'a'}: "alt+a",
		Named(KeyUnknown):        "unknown",
		{Key: Key(999)}:          "unknown",
	}
	for tok, want := range tests {
		if got := tok.String(); got != want {
			t.Errorf("%#v.String() = %q, want %q", tok, got, want)
		}
	}
}
