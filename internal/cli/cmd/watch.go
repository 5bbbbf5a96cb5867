package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/dimmer/internal/cli/styles"
	"github.com/bnema/dimmer/internal/domain/entity"
	"github.com/bnema/dimmer/internal/logging"
)

var (
	watchJSON     bool
	watchInterval time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the system color scheme and print every mode change",
	Long: `Stay running, keep the root class in sync with the system color scheme
and print each change. Preferences written by other dimmer processes are
picked up on the sync interval.

Examples:
  dimmer watch                      # styled change log
  dimmer watch --json | my-script   # one JSON object per line`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVar(&watchJSON, "json", false, "print one JSON object per change")
	watchCmd.Flags().DurationVar(&watchInterval, "sync-interval", 2*time.Second, "how often to re-read the preference store (0 disables)")
}

func runWatch(cmd *cobra.Command, _ []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(app.Ctx(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log := logging.FromContext(ctx)

	out := cmd.OutOrStdout()
	enc := json.NewEncoder(out)
	emit := func(state entity.ThemeState) {
		if watchJSON {
			if err := enc.Encode(newStateOutput(state)); err != nil {
				log.Warn().Err(err).Msg("failed to write state")
			}
			return
		}
		renderer := styles.NewStateRenderer(styles.NewTheme(state.Mode))
		fmt.Fprintf(out, "%s %s\n", time.Now().Format("15:04:05"), renderer.RenderChange(state))
	}

	controller := app.Controller()
	sig := app.Signal()
	sig.Start(ctx)
	app.WatchConfig()

	emit(controller.State(ctx))
	controller.Reconcile(ctx)

	unsubscribe := controller.Subscribe(emit)
	defer unsubscribe()
	release := controller.SubscribeToSystemSignal(ctx)
	defer release()

	var tick <-chan time.Time
	if watchInterval > 0 {
		ticker := time.NewTicker(watchInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	log.Debug().Dur("sync_interval", watchInterval).Msg("watching theme changes")
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick:
			controller.Sync(ctx)
		}
	}
}
