package toolchain

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	probeCacheFileName = "toolchain-probe.json"
	// DefaultProbeCacheMaxAge is how long doctor trusts a previous probe.
	DefaultProbeCacheMaxAge = 24 * time.Hour
)

// ToolProbe records where a tool was found and which version it reported.
type ToolProbe struct {
	Path    string `json:"path"`
	Version string `json:"version"`
}

// ProbeCache holds the cached doctor probe results.
type ProbeCache struct {
	Tools     map[string]ToolProbe `json:"tools"`
	CheckedAt time.Time            `json:"checked_at"`
}

// LoadProbeCache reads the probe cache from the config directory.
// Returns nil, nil if the cache file does not exist (first run).
func LoadProbeCache(configDir string) (*ProbeCache, error) {
	path := filepath.Join(configDir, probeCacheFileName)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading probe cache: %w", err)
	}

	var cache ProbeCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil, fmt.Errorf("parsing probe cache: %w", err)
	}
	return &cache, nil
}

// SaveProbeCache writes the probe cache to the config directory.
func SaveProbeCache(configDir string, cache *ProbeCache) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling probe cache: %w", err)
	}

	path := filepath.Join(configDir, probeCacheFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing probe cache: %w", err)
	}
	return nil
}

// IsProbeCacheStale returns true if the cache is older than maxAge or nil.
func IsProbeCacheStale(cache *ProbeCache, maxAge time.Duration) bool {
	if cache == nil {
		return true
	}
	return time.Since(cache.CheckedAt) > maxAge
}
