package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(transpileCmd)
}

var transpileCmd = &cobra.Command{
	Use:   "transpile",
	Short: "Transpile the entry script to C++ without compiling",
	RunE: func(cmd *cobra.Command, args []string) error {
		proj, err := loadProject()
		if err != nil {
			return err
		}
		log := newLogger()
		defer log.Close()

		p := newPipeline(proj, log)
		if err := p.Transpile(cmd.Context()); err != nil {
			return err
		}
		successColor.Fprintf(cmd.OutOrStdout(), "Transpiled %s\n", proj.Manifest.Entry)
		return nil
	},
}
