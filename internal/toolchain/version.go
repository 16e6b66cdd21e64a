package toolchain

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// MinVersions are the oldest tool releases doctor accepts. Tools without
// an entry pass the gate unconditionally.
var MinVersions = map[string]string{
	"g++":   "9.0.0",
	"glslc": "2022.1.0",
}

var versionPattern = regexp.MustCompile(`\d+\.\d+(\.\d+)?`)

// ProbeVersion runs `<tool> --version` and extracts the first version
// token from its output.
func ProbeVersion(ctx context.Context, name, path string) (string, error) {
	tool := &Tool{Name: name, Path: path, Args: []string{"--version"}}
	out, err := tool.Run(ctx, nil)
	if err != nil {
		return "", err
	}
	if out.ExitCode != 0 {
		return "", fmt.Errorf("%s --version exited %d: %s", name, out.ExitCode, strings.TrimSpace(out.Stderr))
	}

	match := versionPattern.FindString(out.Stdout)
	if match == "" {
		match = versionPattern.FindString(out.Stderr)
	}
	if match == "" {
		return "", fmt.Errorf("no version in %s output", name)
	}
	return match, nil
}

// MeetsMinimum reports whether version satisfies the minimum recorded for
// the tool. Tools without a minimum always pass.
func MeetsMinimum(name, version string) (bool, error) {
	min, ok := MinVersions[name]
	if !ok {
		return true, nil
	}

	v, err := parseSemver(version)
	if err != nil {
		return false, fmt.Errorf("parsing %s version %q: %w", name, version, err)
	}
	m, err := parseSemver(min)
	if err != nil {
		return false, fmt.Errorf("parsing minimum version %q: %w", min, err)
	}
	return v.Compare(m) >= 0, nil
}

// parseSemver strips a leading "v" and tolerates two-part versions by
// padding a zero patch.
func parseSemver(version string) (*semver.Version, error) {
	version = strings.TrimPrefix(version, "v")
	if strings.Count(version, ".") == 1 {
		version += ".0"
	}
	return semver.NewVersion(version)
}
