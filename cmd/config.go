package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"exifrename/internal"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as TOML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := internal.LoadConfig(configFlag)
		if err != nil {
			return err
		}

		path := configFlag
		if path == "" {
			if path, err = internal.DefaultConfigPath(); err != nil {
				return err
			}
		}

		data, err := cfg.MarshalTOML()
		if err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", path, data)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
