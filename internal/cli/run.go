package cli

import (
	"github.com/spf13/cobra"
)

var runSkipBuild bool

func init() {
	runCmd.Flags().BoolVar(&runSkipBuild, "skip-build", false, "Launch the existing binary without rebuilding")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Build the project and launch it",
	RunE: func(cmd *cobra.Command, args []string) error {
		proj, err := loadProject()
		if err != nil {
			return err
		}
		log := newLogger()
		defer log.Close()

		p := newPipeline(proj, log)
		if !runSkipBuild {
			if err := p.Build(cmd.Context(), nil); err != nil {
				return err
			}
		}
		return p.Run(cmd.Context())
	},
}
