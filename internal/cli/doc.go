// Package cli implements the hotforge command tree: project scaffolding,
// builds, the file watcher daemon, hot-module swapping, and environment
// diagnostics.
package cli
