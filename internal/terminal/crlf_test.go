package terminal

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/muurk/devterm/internal/logging"
)

func TestCRLFWriter(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"one line\n", "one line\r\n"},
		{"a\nb\n", "a\r\nb\r\n"},
		{"already\r\n", "already\r\n"},
		{"no newline", "no newline"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		w := NewCRLFWriter(&buf)

		n, err := w.Write([]byte(tt.in))
		if err != nil {
			t.Fatalf("Write(%q) error = %v", tt.in, err)
		}
		if n != len(tt.in) {
			t.Errorf("Write(%q) = %d, want %d", tt.in, n, len(tt.in))
		}
		if buf.String() != tt.want {
			t.Errorf("Write(%q) wrote %q, want %q", tt.in, buf.String(), tt.want)
		}
	}
}

func TestCRLFWriterUnderLogger(t *testing.T) {
	var buf bytes.Buffer
	if err := logging.InitializeWithOutput("debug", NewCRLFWriter(&buf)); err != nil {
		t.Fatalf("InitializeWithOutput() error = %v", err)
	}
	defer logging.SetLogger(nil)

	logging.Info("first", zap.String("key", "a"))
	logging.Warn("second")

	out := buf.String()
	if strings.Count(out, "\r\n") != 2 {
		t.Errorf("want two CRLF-terminated entries, got %q", out)
	}
	if strings.Contains(strings.ReplaceAll(out, "\r\n", ""), "\n") {
		t.Errorf("bare line feed in log output: %q", out)
	}
}
