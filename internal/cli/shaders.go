package cli

import (
	"fmt"
	"path/filepath"

	"github.com/hotforge-labs/hotforge/internal/project"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(shadersCmd)
}

var shadersCmd = &cobra.Command{
	Use:   "shaders [shader...]",
	Short: "Compile shaders to SPIR-V",
	Long: `Compile the named shader sources, or every shader in the project when
no arguments are given. Output lands next to each source with a .spv
suffix.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		proj, err := loadProject()
		if err != nil {
			return err
		}
		log := newLogger()
		defer log.Close()

		var paths []string
		for _, arg := range args {
			if !project.IsShaderSource(arg) {
				return fmt.Errorf("%s is not a shader source", arg)
			}
			abs, err := filepath.Abs(arg)
			if err != nil {
				return err
			}
			paths = append(paths, abs)
		}

		p := newPipeline(proj, log)
		if err := p.Shaders(cmd.Context(), paths); err != nil {
			return err
		}
		successColor.Fprintln(cmd.OutOrStdout(), "Shaders compiled")
		return nil
	},
}
