package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/bnema/dimmer/internal/cli"
	"github.com/bnema/dimmer/internal/cli/styles"
	"github.com/bnema/dimmer/internal/domain/entity"
	"github.com/bnema/dimmer/internal/infrastructure/colorscheme"
	"github.com/bnema/dimmer/internal/logging"
)

var getJSON bool

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the current theme mode",
	Long: `Resolve the stored preference against the system color scheme and print
the resulting mode. The root class file is refreshed as a side effect.

Examples:
  dimmer get            # styled summary
  dimmer get --json     # machine readable`,
	Args: cobra.NoArgs,
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
	getCmd.Flags().BoolVar(&getJSON, "json", false, "print the state as JSON")
}

// stateOutput is the JSON shape printed by get and watch.
type stateOutput struct {
	Mode          entity.ColorMode       `json:"mode"`
	Preference    entity.ThemePreference `json:"preference,omitempty"`
	Stored        bool                   `json:"stored"`
	FollowsSystem bool                   `json:"follows_system"`
	System        *systemOutput          `json:"system,omitempty"`
	Store         *storeOutput           `json:"store,omitempty"`
	RootClass     *rootClassOutput       `json:"root_class,omitempty"`
}

type systemOutput struct {
	PrefersDark bool   `json:"prefers_dark"`
	Source      string `json:"source"`
}

type storeOutput struct {
	Backend       string            `json:"backend"`
	Path          string            `json:"path,omitempty"`
	Fallback      bool              `json:"fallback,omitempty"`
	SchemaVersion int64             `json:"schema_version,omitempty"`
	Values        map[string]string `json:"values"`
}

type rootClassOutput struct {
	Class string `json:"class"`
	File  string `json:"file,omitempty"`
}

func newStateOutput(state entity.ThemeState) stateOutput {
	return stateOutput{
		Mode:          state.Mode,
		Preference:    state.Preference,
		Stored:        state.Stored,
		FollowsSystem: state.FollowsSystem(),
	}
}

func newFullStateOutput(ctx context.Context, app *cli.App, state entity.ThemeState, reading colorscheme.Reading) stateOutput {
	out := newStateOutput(state)
	out.System = &systemOutput{PrefersDark: reading.PrefersDark, Source: reading.Source}

	info := app.StoreInfo()
	out.Store = &storeOutput{Backend: string(info.Backend), Path: info.Path, Fallback: info.Fallback}
	if version, ok := app.SchemaVersion(ctx); ok {
		out.Store.SchemaVersion = version
	}
	values, err := app.StoreValues(ctx)
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("failed to list stored preferences")
	}
	out.Store.Values = values

	out.RootClass = &rootClassOutput{Class: app.RootClass(), File: app.RootFlagPath}
	return out
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runGet(cmd *cobra.Command, _ []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}

	ctx := app.Ctx()
	controller := app.Controller()
	state := controller.State(ctx)
	controller.Reconcile(ctx)
	reading := app.Signal().Current()

	if getJSON {
		return writeJSON(cmd.OutOrStdout(), newFullStateOutput(ctx, app, state, reading))
	}

	renderer := styles.NewStateRenderer(styles.NewTheme(state.Mode))
	fmt.Fprintln(cmd.OutOrStdout(), renderer.Render(state, styles.SignalInfo{
		PrefersDark: reading.PrefersDark,
		Source:      reading.Source,
	}))
	return nil
}
