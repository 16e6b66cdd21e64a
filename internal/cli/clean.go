package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hotforge-labs/hotforge/internal/project"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(cleanCmd)
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove build artifacts",
	Long: `Remove the built executable, transpiled sources, compiled shaders, and
hot-module artifacts including leftover staging and backup files.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		proj, err := loadProject()
		if err != nil {
			return err
		}

		var targets []string
		targets = append(targets, proj.ExecutablePath())
		if transpiled := proj.TranspiledPath(); transpiled != proj.EntryPath() {
			targets = append(targets, transpiled)
		}

		mods, err := proj.HotModules()
		if err != nil {
			return err
		}
		for _, mod := range mods {
			targets = append(targets, mod.LoadedPath, mod.StagingPath, mod.BackupPath)
		}

		shaders, err := proj.Shaders()
		if err != nil {
			return err
		}
		for _, rel := range shaders {
			targets = append(targets, filepath.Join(proj.Root, project.SpirvOutputPath(rel)))
		}

		removed := 0
		for _, path := range targets {
			if err := os.Remove(path); err == nil {
				removed++
				rel, relErr := filepath.Rel(proj.Root, path)
				if relErr != nil {
					rel = path
				}
				fmt.Fprintf(cmd.OutOrStdout(), "  removed %s\n", rel)
			} else if !os.IsNotExist(err) {
				return fmt.Errorf("removing %s: %w", path, err)
			}
		}

		successColor.Fprintf(cmd.OutOrStdout(), "Cleaned %d artifact(s)\n", removed)
		return nil
	},
}
