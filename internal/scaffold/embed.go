package scaffold

import "embed"

// The all: prefix keeps dotfile templates like .project_config.tmpl.
//
//go:embed all:templates
var templateFS embed.FS
