package toolchain

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestExpandArgs(t *testing.T) {
	template := []string{"-fshader-stage=vertex", "{file}", "-o", "{out}"}
	vars := map[string]string{"file": "tri.vert", "out": "tri.vert.spv"}

	args := expandArgs(template, vars)

	want := []string{"-fshader-stage=vertex", "tri.vert", "-o", "tri.vert.spv"}
	if len(args) != len(want) {
		t.Fatalf("args = %v, want %v", args, want)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("args[%d] = %q, want %q", i, args[i], want[i])
		}
	}

	// Template must not be mutated.
	if template[1] != "{file}" {
		t.Error("template was mutated")
	}
}

func TestExpandArgsNoVars(t *testing.T) {
	args := expandArgs([]string{"--version"}, nil)
	if len(args) != 1 || args[0] != "--version" {
		t.Errorf("args = %v", args)
	}
}

func TestToolRunCapturesOutput(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}

	tool := &Tool{
		Name: "sh",
		Path: sh,
		Args: []string{"-c", "echo out-{file}; echo err-line >&2"},
	}

	out, err := tool.Run(context.Background(), map[string]string{"file": "main.cpp"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out.ExitCode != 0 {
		t.Errorf("exit code = %d", out.ExitCode)
	}
	if !strings.Contains(out.Stdout, "out-main.cpp") {
		t.Errorf("stdout = %q", out.Stdout)
	}
	if !strings.Contains(out.Stderr, "err-line") {
		t.Errorf("stderr = %q", out.Stderr)
	}
}

func TestToolRunNonZeroExit(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}

	tool := &Tool{
		Name: "sh",
		Path: sh,
		Args: []string{"-c", "echo failing >&2; exit 3"},
	}

	out, err := tool.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("non-zero exit must not be an error: %v", err)
	}
	if out.ExitCode != 3 {
		t.Errorf("exit code = %d, want 3", out.ExitCode)
	}
	if !strings.Contains(out.Stderr, "failing") {
		t.Errorf("stderr = %q", out.Stderr)
	}
}

func TestToolRunStreamsWhileCapturing(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}

	var stream strings.Builder
	tool := &Tool{
		Name:   "sh",
		Path:   sh,
		Args:   []string{"-c", "echo hello"},
		Stdout: &stream,
	}

	out, err := tool.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(out.Stdout, "hello") {
		t.Errorf("captured stdout = %q", out.Stdout)
	}
	if !strings.Contains(stream.String(), "hello") {
		t.Errorf("streamed stdout = %q", stream.String())
	}
}

func TestToolRunNotLocated(t *testing.T) {
	tool := &Tool{Name: "ghost"}
	if _, err := tool.Run(context.Background(), nil); err == nil {
		t.Fatal("expected an error for an unlocated tool")
	}
}

func TestToolRunMissingBinary(t *testing.T) {
	tool := &Tool{
		Name: "ghost",
		Path: filepath.Join(t.TempDir(), "no-such-binary"),
	}
	if _, err := tool.Run(context.Background(), nil); err == nil {
		t.Fatal("expected an error for a missing binary")
	}
}

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}
