package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testProject(t *testing.T) *Project {
	t.Helper()
	root := writeProject(t, "name: demo\nentry: main.hsc\n")
	p, err := Load(root)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return p
}

func TestHotModules(t *testing.T) {
	p := testProject(t)

	os.WriteFile(filepath.Join(p.Root, "rotation_hot.cpp"), []byte("// hot"), 0644)
	os.WriteFile(filepath.Join(p.Root, "physics_hot.cpp"), []byte("// hot"), 0644)
	os.WriteFile(filepath.Join(p.Root, "main.cpp"), []byte("// cold"), 0644)

	mods, err := p.HotModules()
	if err != nil {
		t.Fatalf("HotModules failed: %v", err)
	}

	if len(mods) != 2 {
		t.Fatalf("expected 2 hot modules, got %d", len(mods))
	}
	// Sorted by logical name.
	if mods[0].LogicalName != "physics" || mods[1].LogicalName != "rotation" {
		t.Errorf("logical names = %q, %q", mods[0].LogicalName, mods[1].LogicalName)
	}

	m := mods[1]
	if m.StagingPath != m.LoadedPath+".new" {
		t.Errorf("staging path = %q, want loaded+.new", m.StagingPath)
	}
	if m.BackupPath != m.LoadedPath+".old" {
		t.Errorf("backup path = %q, want loaded+.old", m.BackupPath)
	}
	if !strings.Contains(filepath.Base(m.LoadedPath), "rotation") {
		t.Errorf("artifact %q does not carry the logical name", m.LoadedPath)
	}
}

func TestHotModulesEmpty(t *testing.T) {
	p := testProject(t)
	mods, err := p.HotModules()
	if err != nil {
		t.Fatalf("HotModules failed: %v", err)
	}
	if len(mods) != 0 {
		t.Errorf("expected no modules, got %d", len(mods))
	}
}

func TestShaders(t *testing.T) {
	p := testProject(t)

	os.MkdirAll(filepath.Join(p.Root, "shaders"), 0755)
	os.WriteFile(filepath.Join(p.Root, "shaders", "tri.vert"), []byte(""), 0644)
	os.WriteFile(filepath.Join(p.Root, "shaders", "tri.frag"), []byte(""), 0644)
	os.WriteFile(filepath.Join(p.Root, "blur.comp"), []byte(""), 0644)
	os.WriteFile(filepath.Join(p.Root, "readme.txt"), []byte(""), 0644)

	shaders, err := p.Shaders()
	if err != nil {
		t.Fatalf("Shaders failed: %v", err)
	}

	if len(shaders) != 3 {
		t.Fatalf("expected 3 shaders, got %d: %v", len(shaders), shaders)
	}
	if shaders[0] != "blur.comp" {
		t.Errorf("sorted first shader = %q", shaders[0])
	}
}

func TestSpirvOutputPath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"post.glsl", "post.spv"},
		{"tri.vert", "tri.vert.spv"},
		{"tri.frag", "tri.frag.spv"},
		{"blur.comp", "blur.comp.spv"},
	}
	for _, tt := range tests {
		if got := SpirvOutputPath(tt.in); got != tt.want {
			t.Errorf("SpirvOutputPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
