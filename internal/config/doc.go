// Package config manages user-level settings stored at ~/.hotforge/config.yaml.
// It provides functions to load, read, and write configuration keys such as
// toolchain binary overrides and default backoff tuning for the hot swap.
package config
