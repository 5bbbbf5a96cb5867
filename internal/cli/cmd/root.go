// Package cmd provides Cobra CLI commands for dimmer.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/dimmer/internal/cli"
	"github.com/bnema/dimmer/internal/domain/build"
)

var (
	app       *cli.App
	buildInfo build.Info
	appOpts   cli.Options
	rootCmd   = &cobra.Command{
		Use:   "dimmer",
		Short: "Theme preference manager that follows your desktop's dark mode",
		Long: `Dimmer - one dark/light switch for everything that reads it.

Dimmer keeps a theme preference (dark, light or system), resolves it against
the desktop's color scheme and publishes the result as a root class other
tools can key off of.

Sources of the system color scheme, highest priority first:
  - a config override
  - the XDG desktop portal (GNOME, KDE, wlroots)
  - a watched file
  - the GTK_THEME environment variable
  - gsettings
  - the terminal background

Run 'dimmer' without arguments to print the current mode, or explore the
subcommands to change it.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip initialization for commands that don't need app context
			switch cmd.Name() {
			case "help", "completion":
				return nil
			}

			var err error
			app, err = cli.NewApp(appOpts)
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			// Set build info from main.go
			app.BuildInfo = buildInfo
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if app != nil {
				_ = app.Close()
			}
		},
		RunE: runGet,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&appOpts.ConfigFile, "config", "c", "", "config file (default $XDG_CONFIG_HOME/dimmer/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&appOpts.Ephemeral, "ephemeral", false, "keep the preference in memory, do not touch the store or root class file")
	rootCmd.Flags().BoolVar(&getJSON, "json", false, "print the state as JSON")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() *cli.App {
	return app
}

// SetBuildInfo sets the build information (called from main.go before Execute).
func SetBuildInfo(info build.Info) {
	buildInfo = info
}

func requireApp() (*cli.App, error) {
	a := GetApp()
	if a == nil {
		return nil, fmt.Errorf("app not initialized")
	}
	return a, nil
}
