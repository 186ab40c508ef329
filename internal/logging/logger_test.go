package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitializeSilentByDefault(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")

	if err := Initialize(""); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	if GetLogger().Core().Enabled(zapcore.ErrorLevel) {
		t.Error("logger should be a no-op when no level is configured")
	}
}

func TestInitializeFromEnv(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "warn")

	if err := Initialize(""); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	defer SetLogger(nil)

	core := GetLogger().Core()
	if core.Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}
	if !core.Enabled(zapcore.WarnLevel) {
		t.Error("warn should be enabled at warn level")
	}
}

func TestInitializeUnknownLevelFallsBackToInfo(t *testing.T) {
	if err := Initialize("chatty"); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	defer SetLogger(nil)

	if !GetLogger().Core().Enabled(zapcore.InfoLevel) {
		t.Error("unknown level should enable info")
	}
}

func TestInitializeWithOutputWritesToWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := InitializeWithOutput("debug", &buf); err != nil {
		t.Fatalf("InitializeWithOutput() error = %v", err)
	}
	defer SetLogger(nil)

	Info("bundler restarted", zap.String("project", "demo"))

	out := buf.String()
	if !strings.Contains(out, "bundler restarted") || !strings.Contains(out, "demo") {
		t.Errorf("entry not written to the output: %q", out)
	}
}

func TestLogDetached(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	LogDetached("open-devtools", nil)
	LogDetached("restart-bundler", errors.New("connection refused"))

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Message != "Detached task finished" {
		t.Errorf("entry[0] = %q", entries[0].Message)
	}
	if entries[1].Message != "Detached task failed" {
		t.Errorf("entry[1] = %q", entries[1].Message)
	}
	if got := entries[1].ContextMap()["task"]; got != "restart-bundler" {
		t.Errorf("task field = %v, want restart-bundler", got)
	}
}
