package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/dimmer/internal/application/usecase"
	"github.com/bnema/dimmer/internal/cli/styles"
	"github.com/bnema/dimmer/internal/domain/entity"
)

var setCmd = &cobra.Command{
	Use:   "set <dark|light|system>",
	Short: "Store a theme preference",
	Long: `Store a theme preference and apply it.

"dark" and "light" pin the mode. "system" follows the desktop color scheme.

Examples:
  dimmer set dark
  dimmer set system`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(entity.ThemeDark), string(entity.ThemeLight), string(entity.ThemeSystem)},
	RunE:      runSet,
}

var toggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Switch to the opposite of the current mode",
	Long: `Store the explicit opposite of the current mode. A preference that
followed the system becomes pinned.`,
	Args: cobra.NoArgs,
	RunE: runToggle,
}

func init() {
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(toggleCmd)
}

func parsePreferenceArg(arg string) (entity.ThemePreference, error) {
	pref, ok := entity.ParseThemePreference(arg)
	if !ok {
		return "", fmt.Errorf("%w: %q (expected dark, light or system)", usecase.ErrInvalidPreference, arg)
	}
	return pref, nil
}

func runSet(cmd *cobra.Command, args []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}

	pref, err := parsePreferenceArg(args[0])
	if err != nil {
		return err
	}

	ctx := app.Ctx()
	controller := app.Controller()
	if err := controller.SetPreference(ctx, pref); err != nil {
		return fmt.Errorf("set preference: %w", err)
	}

	state := controller.State(ctx)
	fmt.Fprintln(cmd.OutOrStdout(), styles.NewStateRenderer(styles.NewTheme(state.Mode)).RenderChange(state))
	return nil
}

func runToggle(cmd *cobra.Command, _ []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}

	ctx := app.Ctx()
	controller := app.Controller()
	if _, err := controller.Toggle(ctx); err != nil {
		return fmt.Errorf("toggle theme: %w", err)
	}

	state := controller.State(ctx)
	fmt.Fprintln(cmd.OutOrStdout(), styles.NewStateRenderer(styles.NewTheme(state.Mode)).RenderChange(state))
	return nil
}
