package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/hotforge-labs/hotforge/internal/branding"
	"github.com/hotforge-labs/hotforge/internal/config"
	"github.com/hotforge-labs/hotforge/internal/logging"
	"github.com/hotforge-labs/hotforge/internal/pipeline"
	"github.com/hotforge-labs/hotforge/internal/project"
)

var (
	successColor = color.New(color.FgGreen)
	failColor    = color.New(color.FgRed)
	noteColor    = color.New(color.FgYellow)
	headColor    = color.New(color.FgCyan, color.Bold)
)

// loadProject loads the project containing the working directory.
func loadProject() (*project.Project, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}
	return project.Load(cwd)
}

// newLogger builds the command logger: stderr always, plus a JSON file
// sink when log.dir is configured.
func newLogger() *logging.Logger {
	cfg := logging.Config{Service: branding.CLIName()}
	if verbose {
		cfg.Level = slog.LevelDebug
	}
	cfg.LogDir = config.Get(config.KeyLogDir)

	log, err := logging.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: file logging disabled: %v\n", err)
	}
	return log
}

// newPipeline wires a pipeline for the loaded project.
func newPipeline(proj *project.Project, log *logging.Logger) *pipeline.Pipeline {
	return pipeline.New(proj, log.Logger, os.Stdout)
}
