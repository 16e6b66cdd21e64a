package toolchain

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/hotforge-labs/hotforge/internal/config"
)

// Spec describes how to locate one external tool.
type Spec struct {
	// Name is the binary base name, e.g. "glslc".
	Name string

	// ConfigKey is the global config override; an explicitly configured
	// path wins and must exist.
	ConfigKey string

	// EnvVar names an environment variable holding the tool's install
	// root, e.g. VULKAN_SDK.
	EnvVar string

	// EnvSubdir is the directory under the env var root that holds the
	// binary, typically "bin".
	EnvSubdir string

	// Conventional lists install directories probed before falling back
	// to PATH.
	Conventional []string
}

// Known tool specs.
var (
	TranspilerSpec = Spec{
		Name:      "heiroc",
		ConfigKey: config.KeyTranspiler,
		EnvVar:    "HEIROC_HOME",
		EnvSubdir: "bin",
	}

	CompilerSpec = Spec{
		Name:      "g++",
		ConfigKey: config.KeyCompiler,
		Conventional: []string{
			"/usr/bin",
			"/usr/local/bin",
			"/opt/homebrew/bin",
		},
	}

	ShaderCompilerSpec = Spec{
		Name:      "glslc",
		ConfigKey: config.KeyShaderCompiler,
		EnvVar:    "VULKAN_SDK",
		EnvSubdir: "bin",
		Conventional: []string{
			"/usr/bin",
			"/usr/local/bin",
			"/opt/homebrew/bin",
		},
	}
)

// Locate resolves a tool binary: config override, then env var root, then
// conventional directories, then PATH.
func Locate(spec Spec) (string, error) {
	if spec.ConfigKey != "" {
		if path := config.Get(spec.ConfigKey); path != "" {
			if _, err := os.Stat(path); err != nil {
				return "", fmt.Errorf("configured %s at %s: %w", spec.Name, path, err)
			}
			return path, nil
		}
	}

	bin := executableName(spec.Name)

	if spec.EnvVar != "" {
		if root := os.Getenv(spec.EnvVar); root != "" {
			candidate := filepath.Join(root, spec.EnvSubdir, bin)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
	}

	for _, dir := range spec.Conventional {
		candidate := filepath.Join(dir, bin)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	path, err := exec.LookPath(spec.Name)
	if err != nil {
		return "", fmt.Errorf("%s not found: checked config, %s, conventional paths, and PATH", spec.Name, spec.EnvVar)
	}
	return path, nil
}

// executableName appends the platform executable suffix.
func executableName(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}

// SDK holds the include and library directories discovered for a native
// dependency. A zero Found means the dependency is absent; callers log a
// warning and build without it.
type SDK struct {
	Name       string
	Root       string
	IncludeDir string
	LibDir     string
	Found      bool
}

// probeSDK resolves an SDK from an ordered list of env vars, then from
// conventional roots. A root qualifies when its include directory exists.
func probeSDK(name string, envVars []string, conventionalRoots []string) SDK {
	roots := make([]string, 0, len(envVars)+len(conventionalRoots))
	for _, v := range envVars {
		if root := os.Getenv(v); root != "" {
			roots = append(roots, root)
		}
	}
	roots = append(roots, conventionalRoots...)

	for _, root := range roots {
		include := filepath.Join(root, "include")
		if _, err := os.Stat(include); err != nil {
			continue
		}
		sdk := SDK{Name: name, Root: root, IncludeDir: include, Found: true}
		lib := filepath.Join(root, "lib")
		if _, err := os.Stat(lib); err == nil {
			sdk.LibDir = lib
		}
		return sdk
	}
	return SDK{Name: name}
}

// ProbeVulkan locates the Vulkan SDK via VULKAN_SDK or common roots.
func ProbeVulkan() SDK {
	return probeSDK("vulkan", []string{"VULKAN_SDK"}, []string{"/usr", "/usr/local", "/opt/homebrew"})
}

// ProbeGLFW locates GLFW via GLFW_PATH or common roots.
func ProbeGLFW() SDK {
	return probeSDK("glfw", []string{"GLFW_PATH"}, []string{"/usr", "/usr/local", "/opt/homebrew"})
}

// ProbeSDL locates SDL, preferring SDL3 over SDL2.
func ProbeSDL() SDK {
	return probeSDK("sdl", []string{"SDL3_PATH", "SDL2_PATH"}, []string{"/usr", "/usr/local", "/opt/homebrew"})
}
