package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(hotloadCmd)
}

var hotloadCmd = &cobra.Command{
	Use:   "hotload [module...]",
	Short: "Rebuild hot code and swap it under the running host",
	Long: `Re-transpile the entry script, compile the named hot modules (or all of
them) into staging artifacts, and swap each one into place. When the host
still holds a module open, the swap retries with increasing delays until
the host lets go.

Without arguments, shaders declared @hot recompile too, and a project
declaring only @hot resources gets a full rebuild so the new declarations
link into the executable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		proj, err := loadProject()
		if err != nil {
			return err
		}
		log := newLogger()
		defer log.Close()

		var paths []string
		if len(args) > 0 {
			mods, err := proj.HotModules()
			if err != nil {
				return err
			}
			byName := make(map[string]string, len(mods))
			for _, mod := range mods {
				byName[mod.LogicalName] = mod.SourcePath
			}
			for _, name := range args {
				src, ok := byName[name]
				if !ok {
					return fmt.Errorf("no hot module named %q in this project", name)
				}
				paths = append(paths, src)
			}
		}

		p := newPipeline(proj, log)
		report, err := p.Hotload(cmd.Context(), paths)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch {
		case report.FullRebuild:
			successColor.Fprintln(out, "Executable rebuilt for hot resources")
			noteColor.Fprintln(out, "Restart the host to load the new resources")
		case report.ModulesSwapped > 0:
			successColor.Fprintln(out, "Hot modules swapped")
		case report.ShadersCompiled > 0:
			successColor.Fprintln(out, "Hot shaders recompiled")
		default:
			noteColor.Fprintf(out, "Nothing hot-reloadable in %s; declare @hot systems, shaders, or resources\n",
				proj.Manifest.Entry)
		}
		return nil
	},
}
