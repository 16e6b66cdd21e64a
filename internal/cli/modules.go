package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(modulesCmd)
}

var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "List hot modules, shaders, and @hot annotations",
	RunE: func(cmd *cobra.Command, args []string) error {
		proj, err := loadProject()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		mods, err := proj.HotModules()
		if err != nil {
			return err
		}
		headColor.Fprintf(out, "Hot modules (%d)\n", len(mods))
		for _, mod := range mods {
			state := "not built"
			if _, err := os.Stat(mod.LoadedPath); err == nil {
				state = "built"
			}
			if _, err := os.Stat(mod.StagingPath); err == nil {
				state += ", staged"
			}
			if _, err := os.Stat(mod.BackupPath); err == nil {
				state += ", backup left over"
			}
			fmt.Fprintf(out, "  %-16s %s (%s)\n", mod.LogicalName, filepath.Base(mod.LoadedPath), state)
		}

		shaders, err := proj.Shaders()
		if err != nil {
			return err
		}
		headColor.Fprintf(out, "Shaders (%d)\n", len(shaders))
		for _, rel := range shaders {
			fmt.Fprintf(out, "  %s\n", rel)
		}

		ann, err := proj.ScanAnnotations()
		if err != nil {
			return err
		}
		if ann.Any() {
			headColor.Fprintln(out, "Entry script @hot annotations")
			if ann.HotSystems {
				fmt.Fprintln(out, "  hot systems declared")
			}
			if ann.HotResources {
				fmt.Fprintln(out, "  hot resources declared")
			}
			for _, decl := range ann.HotShaders {
				fmt.Fprintf(out, "  shader %s %q\n", decl.Stage, decl.Path)
			}
		}
		return nil
	},
}
