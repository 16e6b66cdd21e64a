package toolchain

import (
	"io"
	"log/slog"
	"runtime"

	"github.com/hotforge-labs/hotforge/internal/project"
)

// CppBuild assembles C++ compiler invocations for the project.
type CppBuild struct {
	// Compiler is the resolved compiler path.
	Compiler string

	// Flags are extra flags from the project manifest, appended last so
	// projects can override the defaults.
	Flags []string

	// SDKs are the native dependencies discovered by probing. Missing SDKs
	// are logged and skipped; the build may still succeed if the project
	// does not use them.
	SDKs []SDK

	Log *slog.Logger
}

// NewCppBuild probes the native SDKs and returns a configured builder.
func NewCppBuild(compiler string, flags []string, log *slog.Logger) *CppBuild {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	b := &CppBuild{
		Compiler: compiler,
		Flags:    flags,
		Log:      log,
		SDKs:     []SDK{ProbeVulkan(), ProbeGLFW(), ProbeSDL()},
	}
	for _, sdk := range b.SDKs {
		if !sdk.Found {
			log.Warn("SDK not found, building without it", "sdk", sdk.Name)
		}
	}
	return b
}

// SharedLibArgs builds the argv for compiling one hot-module source into a
// shared library at out.
func (b *CppBuild) SharedLibArgs(source, out string) []string {
	args := []string{"-shared", "-std=c++17", "-O2"}
	if runtime.GOOS != "windows" {
		args = append(args, "-fPIC")
	}
	args = append(args, b.sdkArgs()...)
	args = append(args, b.Flags...)
	args = append(args, "-o", out, source)
	return args
}

// ExecutableArgs builds the argv for compiling and linking the project
// executable from the given sources.
func (b *CppBuild) ExecutableArgs(sources []string, out string, features *project.Features) []string {
	args := []string{"-std=c++17", "-O2"}
	args = append(args, b.sdkArgs()...)
	args = append(args, FeatureArgs(features)...)
	args = append(args, b.Flags...)
	args = append(args, "-o", out)
	args = append(args, sources...)
	return args
}

// sdkArgs emits include and library search paths for the discovered SDKs.
func (b *CppBuild) sdkArgs() []string {
	var args []string
	for _, sdk := range b.SDKs {
		if !sdk.Found {
			continue
		}
		args = append(args, "-I"+sdk.IncludeDir)
		if sdk.LibDir != "" {
			args = append(args, "-L"+sdk.LibDir)
		}
	}
	return args
}

// FeatureArgs converts project feature flags into preprocessor defines.
func FeatureArgs(f *project.Features) []string {
	if f == nil {
		return nil
	}
	var args []string
	if f.EnableUIWindows {
		args = append(args, "-DHF_ENABLE_UI_WINDOWS=1")
	}
	if f.EnableOverlay {
		args = append(args, "-DHF_ENABLE_OVERLAY=1")
	}
	if f.UseModularEngine {
		args = append(args, "-DHF_MODULAR_ENGINE=1")
	}
	return args
}
