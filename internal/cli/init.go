package cli

import (
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/hotforge-labs/hotforge/internal/scaffold"
	"github.com/spf13/cobra"
)

var initDir string

var projectNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*$`)

func init() {
	initCmd.Flags().StringVar(&initDir, "dir", "", "Output directory (default ./<name>)")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init <name>",
	Short: "Create a new project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if !projectNamePattern.MatchString(name) {
			return fmt.Errorf("invalid project name %q: use letters, digits, - and _", name)
		}

		outputDir := initDir
		if outputDir == "" {
			outputDir = name
		}

		result, err := scaffold.Generate(scaffold.NewData(name), outputDir)
		if err != nil {
			return err
		}

		successColor.Fprintf(cmd.OutOrStdout(), "Created project %s\n", name)
		for _, f := range result.Files {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", filepath.Join(outputDir, f))
		}
		for _, w := range result.Warnings {
			noteColor.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nNext: cd %s && hotforge watch\n", outputDir)
		return nil
	},
}
