package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestInitCommand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "demo")

	if _, err := execute(t, "init", "demo", "--dir", dir); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	for _, name := range []string{"hotforge.yaml", "main.cpp", "rotation_hot.cpp", ".project_config"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestInitRejectsBadName(t *testing.T) {
	if _, err := execute(t, "init", "../escape"); err == nil {
		t.Fatal("expected an error for an invalid name")
	}
}

func TestVersionCommand(t *testing.T) {
	buildVersion = "1.2.3"
	versionShort = true
	t.Cleanup(func() { versionShort = false })

	out, err := execute(t, "version", "--short")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if out != "1.2.3\n" {
		t.Errorf("output = %q", out)
	}
}
