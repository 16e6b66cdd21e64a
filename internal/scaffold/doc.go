// Package scaffold generates a new project from embedded templates. It
// powers the "hotforge init" command, producing a manifest, a feature-flag
// file, a buildable entry source, an example hot module, and a shader
// pair.
package scaffold
