package cli

import (
	"os/signal"
	"syscall"

	"github.com/hotforge-labs/hotforge/internal/pipeline"
	"github.com/hotforge-labs/hotforge/internal/watch"
	"github.com/spf13/cobra"
)

var watchNoInitialBuild bool

func init() {
	watchCmd.Flags().BoolVar(&watchNoInitialBuild, "no-initial-build", false, "Skip the full build before watching")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the project and rebuild on change",
	Long: `Watch the project tree and run the matching build when sources settle:
shader changes recompile shaders, hot-module changes rebuild and swap the
module, anything else runs a full build. Triggers arriving while a build
runs or has just finished are dropped. Stop with Ctrl-C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		proj, err := loadProject()
		if err != nil {
			return err
		}
		log := newLogger()
		defer log.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		p := newPipeline(proj, log)
		if !watchNoInitialBuild {
			headColor.Fprintln(cmd.OutOrStdout(), "Initial build")
			if err := p.Build(ctx, nil); err != nil {
				failColor.Fprintln(cmd.ErrOrStderr(), "Initial build failed; fix the error and save to retry")
			}
		}

		opts := pipeline.WatchOptions(proj.Manifest.Watch)
		w, err := watch.New(proj.Root, p, opts, log.Logger)
		if err != nil {
			return err
		}
		defer w.Stop()

		if err := w.Start(ctx); err != nil {
			return err
		}
		successColor.Fprintf(cmd.OutOrStdout(), "Watching %s (settle %s, min interval %s)\n",
			proj.Root, opts.SettleDelay, opts.MinInterval)

		p.Serve(ctx, w.Triggers())

		noteColor.Fprintln(cmd.OutOrStdout(), "Watch stopped")
		return nil
	},
}
