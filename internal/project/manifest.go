package project

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// Manifest is the parsed hotforge.yaml.
type Manifest struct {
	Name      string          `yaml:"name"`
	Entry     string          `yaml:"entry"`
	Toolchain ToolchainConfig `yaml:"toolchain"`
	Watch     WatchConfig     `yaml:"watch"`
	Hotswap   HotswapConfig   `yaml:"hotswap"`
}

// ToolchainConfig holds per-project toolchain overrides. Empty values fall
// back to global config and then to built-in defaults.
type ToolchainConfig struct {
	// Transpile is the argv template for the script transpiler. The
	// placeholder {file} expands to the entry script path.
	Transpile []string `yaml:"transpile"`

	// Compiler is the C++ compiler binary (default g++).
	Compiler string `yaml:"compiler"`

	// ShaderCompiler is the shader compiler binary (default glslc).
	ShaderCompiler string `yaml:"shader_compiler"`

	// CompileFlags are extra flags appended to the build command.
	CompileFlags []string `yaml:"compile_flags"`
}

// WatchConfig tunes the debounced rebuild trigger.
type WatchConfig struct {
	SettleMS      int `yaml:"settle_ms"`
	MinIntervalMS int `yaml:"min_interval_ms"`
	CooldownMS    int `yaml:"cooldown_ms"`
}

// HotswapConfig tunes the swap retry policy.
type HotswapConfig struct {
	MaxAttempts      int `yaml:"max_attempts"`
	BaseDelayMS      int `yaml:"base_delay_ms"`
	DelayIncrementMS int `yaml:"delay_increment_ms"`
}

// ParseManifest reads and parses a manifest file after validating it
// against the embedded schema.
func ParseManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	result, err := Validate(data)
	if err != nil {
		return nil, fmt.Errorf("validating manifest %s: %w", path, err)
	}
	if !result.Valid {
		return nil, fmt.Errorf("manifest %s is invalid: %s", path, result.Issues[0].Message)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}

	return &m, nil
}

// Project is a loaded project: manifest plus resolved filesystem locations.
type Project struct {
	Root     string
	Manifest *Manifest
	Features *Features
}

// Load finds and loads the project containing dir, searching upward for the
// manifest file.
func Load(dir string) (*Project, error) {
	root, err := FindRoot(dir)
	if err != nil {
		return nil, err
	}

	m, err := ParseManifest(filepath.Join(root, ManifestFileName))
	if err != nil {
		return nil, err
	}

	features, err := LoadFeatures(root)
	if err != nil {
		return nil, err
	}

	return &Project{Root: root, Manifest: m, Features: features}, nil
}

// FindRoot walks up from dir looking for the manifest file.
func FindRoot(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dir, err)
	}

	for {
		if _, err := os.Stat(filepath.Join(abs, ManifestFileName)); err == nil {
			return abs, nil
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("no %s found in %s or any parent directory", ManifestFileName, dir)
		}
		abs = parent
	}
}

// EntryPath returns the absolute path of the entry script.
func (p *Project) EntryPath() string {
	return filepath.Join(p.Root, p.Manifest.Entry)
}

// TranspiledPath returns where the transpiler writes the generated C++ for
// the entry script (entry name with the extension replaced by .cpp).
func (p *Project) TranspiledPath() string {
	entry := p.EntryPath()
	ext := filepath.Ext(entry)
	return entry[:len(entry)-len(ext)] + ".cpp"
}

// ExecutablePath returns the path of the built project binary.
func (p *Project) ExecutablePath() string {
	return filepath.Join(p.Root, ExecutableName(p.Manifest.Name))
}
