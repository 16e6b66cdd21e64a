package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Features are the per-project boolean flags read from .project_config at
// build time to decide which extra sources and flags to include.
type Features struct {
	// EnableUIWindows pulls in the UI window manager sources and SDL.
	EnableUIWindows bool

	// EnableOverlay pulls in the debug overlay subsystem.
	EnableOverlay bool

	// UseModularEngine replaces the bundled engine helpers with the
	// project's own engine sources.
	UseModularEngine bool

	// EngineSources lists engine source files relative to the project root,
	// honored only when UseModularEngine is set.
	EngineSources []string
}

// LoadFeatures reads .project_config from root. A missing file yields the
// zero-value defaults, matching the behavior of a fresh project.
func LoadFeatures(root string) (*Features, error) {
	path := filepath.Join(root, FeaturesFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Features{}, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	f := &Features{
		EnableUIWindows:  featureBool(v.GetString("enable_ui_windows")),
		EnableOverlay:    featureBool(v.GetString("enable_overlay")),
		UseModularEngine: featureBool(v.GetString("use_modular_engine")),
	}

	if raw := v.GetString("engine_sources"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				f.EngineSources = append(f.EngineSources, s)
			}
		}
	}

	return f, nil
}

// SaveFeatures writes the flags back as a key=value file.
func SaveFeatures(root string, f *Features) error {
	var b strings.Builder
	fmt.Fprintf(&b, "enable_ui_windows=%t\n", f.EnableUIWindows)
	fmt.Fprintf(&b, "enable_overlay=%t\n", f.EnableOverlay)
	fmt.Fprintf(&b, "use_modular_engine=%t\n", f.UseModularEngine)
	if len(f.EngineSources) > 0 {
		fmt.Fprintf(&b, "engine_sources=%s\n", strings.Join(f.EngineSources, ","))
	}

	path := filepath.Join(root, FeaturesFileName)
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// featureBool accepts true/1/yes (case-insensitive) as true.
func featureBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes":
		return true
	}
	return false
}
