package project

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// HotModules scans the project root for *_hot.cpp sources and returns the
// corresponding modules, sorted by logical name.
func (p *Project) HotModules() ([]HotModule, error) {
	entries, err := os.ReadDir(p.Root)
	if err != nil {
		return nil, fmt.Errorf("reading project directory %s: %w", p.Root, err)
	}

	var mods []HotModule
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), hotSourceSuffix) {
			continue
		}
		mods = append(mods, moduleFromSource(filepath.Join(p.Root, entry.Name())))
	}

	sort.Slice(mods, func(i, j int) bool {
		return mods[i].LogicalName < mods[j].LogicalName
	})
	return mods, nil
}

// Shaders walks the project tree and returns all shader source files,
// as paths relative to the project root, sorted.
func (p *Project) Shaders() ([]string, error) {
	var shaders []string
	err := filepath.WalkDir(p.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable subtree, keep walking
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if IsShaderSource(path) {
			rel, relErr := filepath.Rel(p.Root, path)
			if relErr != nil {
				rel = path
			}
			shaders = append(shaders, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning shaders in %s: %w", p.Root, err)
	}

	sort.Strings(shaders)
	return shaders, nil
}

// SpirvOutputPath derives the compiled shader path from the source path.
// Full .glsl extensions are replaced; stage extensions are suffixed so
// tri.vert and tri.frag don't collide.
func SpirvOutputPath(shaderPath string) string {
	if strings.HasSuffix(shaderPath, ".glsl") {
		return strings.TrimSuffix(shaderPath, ".glsl") + ".spv"
	}
	return shaderPath + ".spv"
}
