package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStderrOnly(t *testing.T) {
	var buf bytes.Buffer

	l, err := New(Config{Stderr: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer l.Close()

	l.Info("swap committed", "module", "rotation", "attempts", 4)

	out := buf.String()
	if !strings.Contains(out, "swap committed") {
		t.Errorf("missing message in output: %s", out)
	}
	if !strings.Contains(out, "module=rotation") {
		t.Errorf("missing attribute in output: %s", out)
	}
}

func TestLevelFilter(t *testing.T) {
	var buf bytes.Buffer

	l, err := New(Config{Stderr: &buf, Level: slog.LevelWarn})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer l.Close()

	l.Info("should be dropped")
	l.Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should be dropped") {
		t.Error("info record emitted despite warn level")
	}
	if !strings.Contains(out, "should appear") {
		t.Error("warn record missing")
	}
}

func TestFileSink(t *testing.T) {
	tmp := t.TempDir()
	var buf bytes.Buffer

	l, err := New(Config{Stderr: &buf, LogDir: tmp, Service: "watch"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	l.Info("build finished", "duration_ms", 120)
	if err := l.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	entries, err := os.ReadDir(tmp)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one log file, got %d (err=%v)", len(entries), err)
	}
	if !strings.HasPrefix(entries[0].Name(), "watch_") {
		t.Errorf("log file name %q missing service prefix", entries[0].Name())
	}

	data, err := os.ReadFile(filepath.Join(tmp, entries[0].Name()))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), `"build finished"`) {
		t.Errorf("JSON sink missing record: %s", data)
	}
}
