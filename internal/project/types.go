package project

import (
	"path/filepath"
	"runtime"
	"strings"
)

// ManifestFileName is the project manifest file looked up from the working
// directory upward.
const ManifestFileName = "hotforge.yaml"

// FeaturesFileName is the per-project key=value feature-flag file.
const FeaturesFileName = ".project_config"

// hotSourceSuffix marks a C++ source as a hot-swappable module.
const hotSourceSuffix = "_hot.cpp"

// HotModule describes one hot-swappable code module.
//
// At most one of LoadedPath and BackupPath is the live module the host has
// opened at any instant; the other is absent or a discard candidate.
type HotModule struct {
	// LogicalName is derived from the source filename convention
	// (rotation_hot.cpp -> "rotation").
	LogicalName string

	// SourcePath is the C++ source the module is compiled from.
	SourcePath string

	// LoadedPath is the artifact path the host process opens.
	LoadedPath string

	// StagingPath receives the freshly compiled artifact before the swap.
	StagingPath string

	// BackupPath holds the previous artifact transiently during a swap.
	BackupPath string
}

// moduleFromSource builds a HotModule from a *_hot.cpp source path.
func moduleFromSource(sourcePath string) HotModule {
	base := filepath.Base(sourcePath)
	name := strings.TrimSuffix(base, hotSourceSuffix)
	dir := filepath.Dir(sourcePath)

	artifact := filepath.Join(dir, sharedLibName(name))
	return HotModule{
		LogicalName: name,
		SourcePath:  sourcePath,
		LoadedPath:  artifact,
		StagingPath: artifact + ".new",
		BackupPath:  artifact + ".old",
	}
}

// sharedLibName returns the platform artifact name for a logical module name.
func sharedLibName(name string) string {
	switch runtime.GOOS {
	case "windows":
		return name + ".dll"
	case "darwin":
		return "lib" + name + ".dylib"
	default:
		return "lib" + name + ".so"
	}
}

// ExecutableName returns the platform name for the project's built binary.
func ExecutableName(projectName string) string {
	if runtime.GOOS == "windows" {
		return projectName + ".exe"
	}
	return projectName
}

// IsHotSource reports whether path follows the hot-module source naming
// convention.
func IsHotSource(path string) bool {
	return strings.HasSuffix(filepath.Base(path), hotSourceSuffix)
}

// shaderExtensions are the file extensions treated as shader sources.
var shaderExtensions = map[string]bool{
	".vert": true,
	".frag": true,
	".comp": true,
	".geom": true,
	".glsl": true,
	".tesc": true,
	".tese": true,
}

// IsShaderSource reports whether path has a recognized shader extension.
func IsShaderSource(path string) bool {
	return shaderExtensions[filepath.Ext(path)]
}
