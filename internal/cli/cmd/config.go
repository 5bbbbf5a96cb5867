package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bnema/dimmer/internal/cli/styles"
	"github.com/bnema/dimmer/internal/infrastructure/config"
)

const configDirPerm = 0o755

var (
	configForce       bool
	configSchemaWrite bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Show where dimmer keeps its files, export the config schema or write a default config.`,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show config, store and root class file locations",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of config.toml",
	Long: `Print the JSON schema of config.toml to stdout, or write it next to the
config file with --write for editor completion.`,
	Args: cobra.NoArgs,
	RunE: runConfigSchema,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with default settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSchemaCmd)
	configCmd.AddCommand(configInitCmd)
	configSchemaCmd.Flags().BoolVarP(&configSchemaWrite, "write", "w", false, "write the schema file instead of printing it")
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "overwrite an existing config file")
}

func configFilePath() (string, error) {
	if appOpts.ConfigFile != "" {
		return appOpts.ConfigFile, nil
	}
	return config.GetConfigFile()
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}

	renderer := styles.NewConfigRenderer(app.Theme())
	configFile, err := configFilePath()
	if err != nil {
		fmt.Fprint(cmd.OutOrStdout(), renderer.RenderError(err))
		return nil
	}

	entries := []styles.PathEntry{{Label: "Config", Path: configFile}}
	if _, statErr := os.Stat(configFile); os.IsNotExist(statErr) {
		entries[0].Note = "missing"
	}

	store := app.Config.Store
	entries = append(entries, styles.PathEntry{Label: "Store", Path: store.Path, Note: string(store.Backend)})

	if app.Config.RootFlag.Enabled {
		entries = append(entries, styles.PathEntry{Label: "Root class", Path: app.Config.RootFlag.Path})
	}
	if app.Config.Signal.File != "" {
		entries = append(entries, styles.PathEntry{Label: "Signal file", Path: app.Config.Signal.File})
	}

	fmt.Fprint(cmd.OutOrStdout(), renderer.RenderPaths(entries))
	return nil
}

func runConfigSchema(cmd *cobra.Command, _ []string) error {
	if !configSchemaWrite {
		data, err := config.Schema()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(append(data, '\n'))
		return err
	}

	app, err := requireApp()
	if err != nil {
		return err
	}

	path, err := config.GenerateSchemaFile()
	if err != nil {
		return fmt.Errorf("write schema: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), styles.NewConfigRenderer(app.Theme()).RenderCreated("Schema", path))
	return nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}

	renderer := styles.NewConfigRenderer(app.Theme())
	path, err := configFilePath()
	if err != nil {
		return err
	}

	if _, statErr := os.Stat(path); statErr == nil && !configForce {
		fmt.Fprint(cmd.OutOrStdout(), renderer.RenderExists(path))
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), configDirPerm); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := config.WriteConfigOrdered(config.DefaultConfig(), path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), renderer.RenderCreated("Config", path))
	return nil
}
