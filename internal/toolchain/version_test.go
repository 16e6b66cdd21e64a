package toolchain

import (
	"context"
	"runtime"
	"testing"
)

func TestMeetsMinimum(t *testing.T) {
	tests := []struct {
		name    string
		version string
		want    bool
	}{
		{"g++", "13.2.0", true},
		{"g++", "9.0.0", true},
		{"g++", "8.5.0", false},
		{"glslc", "2024.1.0", true},
		{"glslc", "2021.4.0", false},
		// Two-part versions are padded before comparison.
		{"g++", "12.3", true},
		// Unknown tools pass unconditionally.
		{"heiroc", "0.1.0", true},
	}
	for _, tt := range tests {
		got, err := MeetsMinimum(tt.name, tt.version)
		if err != nil {
			t.Errorf("MeetsMinimum(%q, %q) error: %v", tt.name, tt.version, err)
			continue
		}
		if got != tt.want {
			t.Errorf("MeetsMinimum(%q, %q) = %v, want %v", tt.name, tt.version, got, tt.want)
		}
	}
}

func TestMeetsMinimumRejectsGarbage(t *testing.T) {
	if _, err := MeetsMinimum("g++", "not-a-version"); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestProbeVersion(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script tools are unix only")
	}
	dir := t.TempDir()
	path := writeScript(t, dir, "fakecc", `echo "fakecc (test) 13.2.1"`)

	version, err := ProbeVersion(context.Background(), "fakecc", path)
	if err != nil {
		t.Fatalf("ProbeVersion failed: %v", err)
	}
	if version != "13.2.1" {
		t.Errorf("version = %q, want 13.2.1", version)
	}
}

func TestProbeVersionFromStderr(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script tools are unix only")
	}
	dir := t.TempDir()
	path := writeScript(t, dir, "fakecc", `echo "version 2023.4" >&2`)

	version, err := ProbeVersion(context.Background(), "fakecc", path)
	if err != nil {
		t.Fatalf("ProbeVersion failed: %v", err)
	}
	if version != "2023.4" {
		t.Errorf("version = %q, want 2023.4", version)
	}
}

func TestProbeVersionNoVersionToken(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script tools are unix only")
	}
	dir := t.TempDir()
	path := writeScript(t, dir, "fakecc", `echo "no numbers here"`)

	if _, err := ProbeVersion(context.Background(), "fakecc", path); err == nil {
		t.Fatal("expected an error")
	}
}
