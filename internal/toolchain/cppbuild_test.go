package toolchain

import (
	"slices"
	"testing"

	"github.com/hotforge-labs/hotforge/internal/project"
)

func TestSharedLibArgs(t *testing.T) {
	b := &CppBuild{Compiler: "g++", Flags: []string{"-g"}}
	args := b.SharedLibArgs("rotation_hot.cpp", "librotation.so.new")

	if !slices.Contains(args, "-shared") {
		t.Errorf("missing -shared: %v", args)
	}
	if !slices.Contains(args, "-g") {
		t.Errorf("manifest flags not appended: %v", args)
	}

	// Source follows the output path.
	i := slices.Index(args, "-o")
	if i < 0 || i+2 >= len(args)+1 {
		t.Fatalf("no -o in %v", args)
	}
	if args[i+1] != "librotation.so.new" || args[i+2] != "rotation_hot.cpp" {
		t.Errorf("output/source = %q, %q", args[i+1], args[i+2])
	}
}

func TestExecutableArgsIncludesFeatureDefines(t *testing.T) {
	b := &CppBuild{Compiler: "g++"}
	f := &project.Features{EnableUIWindows: true, EnableOverlay: true}

	args := b.ExecutableArgs([]string{"main.cpp", "ui.cpp"}, "demo", f)

	if !slices.Contains(args, "-DHF_ENABLE_UI_WINDOWS=1") {
		t.Errorf("missing UI define: %v", args)
	}
	if !slices.Contains(args, "-DHF_ENABLE_OVERLAY=1") {
		t.Errorf("missing overlay define: %v", args)
	}
	if !slices.Contains(args, "main.cpp") || !slices.Contains(args, "ui.cpp") {
		t.Errorf("missing sources: %v", args)
	}
}

func TestSDKArgs(t *testing.T) {
	b := &CppBuild{
		SDKs: []SDK{
			{Name: "vulkan", Found: true, IncludeDir: "/sdk/vulkan/include", LibDir: "/sdk/vulkan/lib"},
			{Name: "glfw"},
		},
	}

	args := b.sdkArgs()
	if !slices.Contains(args, "-I/sdk/vulkan/include") {
		t.Errorf("missing include path: %v", args)
	}
	if !slices.Contains(args, "-L/sdk/vulkan/lib") {
		t.Errorf("missing lib path: %v", args)
	}
	for _, a := range args {
		if a == "-I" || a == "-L" {
			t.Errorf("empty path emitted for missing SDK: %v", args)
		}
	}
}

func TestFeatureArgs(t *testing.T) {
	tests := []struct {
		name     string
		features *project.Features
		want     []string
	}{
		{"nil", nil, nil},
		{"none", &project.Features{}, nil},
		{"modular", &project.Features{UseModularEngine: true}, []string{"-DHF_MODULAR_ENGINE=1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FeatureArgs(tt.features)
			if !slices.Equal(got, tt.want) {
				t.Errorf("FeatureArgs = %v, want %v", got, tt.want)
			}
		})
	}
}
