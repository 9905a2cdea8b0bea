/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"errors"
	"fmt"

	"github.com/josephgoksu/contactbook/internal/config"
	"github.com/josephgoksu/contactbook/internal/ui"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// configFs is the filesystem config init writes to.
var configFs = afero.NewOsFs()

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or create the contactbook configuration",
	Long: `Inspect the effective configuration (after flags, environment variables and
the config file are merged) or write a starter config file.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		out := cmd.OutOrStdout()
		if isJSON() {
			return printJSON(out, cfg)
		}
		data, err := config.MarshalConfig(*cfg)
		if err != nil {
			return err
		}
		if cfg.Config != "" {
			fmt.Fprintf(out, "# loaded from %s\n", cfg.Config)
		}
		fmt.Fprint(out, string(data))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the current settings",
	Example: `  contactbook --db ~/contacts.json config init
  contactbook config init --path ~/.contactbook.yaml --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("path")
		force, _ := cmd.Flags().GetBool("force")
		path = config.ExpandPath(path)

		err := config.WriteConfigFile(configFs, path, *GetConfig(), force)
		if errors.Is(err, config.ErrConfigExists) {
			return &ExitError{
				Code: ExitInvalid,
				Msg:  fmt.Sprintf("%s already exists (use --force to overwrite).", path),
				Err:  err,
			}
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if isJSON() {
			return printJSON(out, map[string]string{"path": path})
		}
		msg := fmt.Sprintf("Wrote %s", path)
		if styled(out) {
			msg = ui.Icon("✓", ui.StyleSuccess) + " " + msg
		}
		fmt.Fprintln(out, msg)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().String("path", config.ConfigName+".yaml", "where to write the config file")
	configInitCmd.Flags().Bool("force", false, "overwrite an existing file")
}
