package cmd

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bnema/dimmer/internal/cli/model"
	"github.com/bnema/dimmer/internal/cli/styles"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive theme switcher",
	Long: `Open an interactive switcher that follows the system color scheme live
and lets you pin dark or light, or go back to following the system.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}

	ctx := app.Ctx()
	controller := app.Controller()
	sig := app.Signal()

	// Resolve before the first frame so it renders in the right mode.
	controller.Reconcile(ctx)
	sig.Start(ctx)
	app.WatchConfig()

	release := controller.SubscribeToSystemSignal(ctx)
	defer release()

	m := model.NewThemeModel(ctx, model.ThemeModelConfig{
		Controller: controller,
		Signal: func() styles.SignalInfo {
			r := sig.Current()
			return styles.SignalInfo{PrefersDark: r.PrefersDark, Source: r.Source}
		},
		RootClass:     app.RootClass,
		RootClassFile: app.RootFlagPath,
	})
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
