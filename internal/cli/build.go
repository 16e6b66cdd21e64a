package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(buildCmd)
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Run a full build: transpile, compile, shaders, hot modules",
	RunE: func(cmd *cobra.Command, args []string) error {
		proj, err := loadProject()
		if err != nil {
			return err
		}
		log := newLogger()
		defer log.Close()

		p := newPipeline(proj, log)
		if err := p.Build(cmd.Context(), nil); err != nil {
			failColor.Fprintf(cmd.ErrOrStderr(), "Build failed\n")
			return err
		}
		successColor.Fprintf(cmd.OutOrStdout(), "Build succeeded: %s\n", proj.Manifest.Name)
		return nil
	},
}
