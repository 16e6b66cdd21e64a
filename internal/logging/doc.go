// Package logging provides structured logging for HotForge components.
//
// Built on log/slog: a text handler on stderr by default (Unix CLI
// convention), with an optional JSON file handler for the watch daemon so
// long sessions leave an inspectable trail. Close flushes and closes the
// file handler when one is configured.
package logging
