package cmd

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/zjrosen/signup/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the signup config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default config file",
	Long: `Writes the commented default configuration. Without a path it goes to
~/.config/signup/config.yaml.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigInit,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set one key in the config file",
	Long: `Updates a single key, keeping the rest of the file and its comments.
The file is the one given with --config, else the one in use, else
~/.config/signup/config.yaml.`,
	Example:   `  signup config set ui.width 72`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: settableKeys(),
	RunE:      runConfigSet,
}

func init() {
	configInitCmd.Flags().Bool("force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func settableKeys() []string {
	keys := make([]string, 0, len(config.SettableKeys))
	for k := range config.SettableKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.DefaultConfigPath()
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return errors.New("no path given and home directory is unknown")
	}
	force, _ := cmd.Flags().GetBool("force")

	if err := config.WriteDefaultConfig(path, force); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	path := writablePath()
	if path == "" {
		return errors.New("no config file in use and home directory is unknown")
	}
	if err := config.SetValue(path, args[0], args[1]); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s in %s\n", args[0], path)
	return nil
}

// writablePath picks the file config set edits.
func writablePath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if cfgUsed != "" {
		return cfgUsed
	}
	return config.DefaultConfigPath()
}
