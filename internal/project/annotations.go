package project

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// HotShaderDecl is one `@hot shader <stage> "path"` declaration.
type HotShaderDecl struct {
	Stage string
	// Path is absolute, resolved against the project root when the
	// declaration is relative.
	Path string
}

// Annotations summarizes the @hot declarations found in the entry script.
type Annotations struct {
	HotSystems   bool
	HotResources bool
	HotShaders   []HotShaderDecl
}

// Any reports whether anything hot-reloadable was declared.
func (a *Annotations) Any() bool {
	return a.HotSystems || a.HotResources || len(a.HotShaders) > 0
}

var (
	hotShaderRe   = regexp.MustCompile(`@hot\s+shader\s+(\w+)\s+"([^"]+)"`)
	hotSystemRe   = regexp.MustCompile(`@hot\s+system\b`)
	hotResourceRe = regexp.MustCompile(`@hot\s+resource\b`)
)

// ScanAnnotations reads the project entry script and extracts its @hot
// declarations. Shader paths that do not exist or lack a shader extension
// are skipped.
func (p *Project) ScanAnnotations() (*Annotations, error) {
	data, err := os.ReadFile(p.EntryPath())
	if err != nil {
		return nil, fmt.Errorf("reading entry script: %w", err)
	}
	content := string(data)

	a := &Annotations{
		HotSystems:   hotSystemRe.MatchString(content),
		HotResources: hotResourceRe.MatchString(content),
	}

	for _, m := range hotShaderRe.FindAllStringSubmatch(content, -1) {
		stage, declared := m[1], m[2]

		path := declared
		if !filepath.IsAbs(path) {
			path = filepath.Join(p.Root, path)
		}
		path = filepath.Clean(path)

		if !IsShaderSource(path) {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}

		a.HotShaders = append(a.HotShaders, HotShaderDecl{
			Stage: strings.ToLower(stage),
			Path:  path,
		})
	}

	return a, nil
}
