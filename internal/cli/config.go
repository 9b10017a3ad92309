package cli

import (
	"fmt"
	"os"

	"github.com/klokku/marketevents/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd(o *options) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:         "init",
		Short:       "Write the default configuration file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfig": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(o.configPath); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", o.configPath)
			}
			cfg := config.Default()
			if o.baseURL != "" {
				cfg.API.BaseURL = o.baseURL
			}
			if o.symbol != "" {
				cfg.Symbol = o.symbol
			}
			if err := config.Save(o.configPath, cfg); err != nil {
				return fmt.Errorf("writing %s: %w", o.configPath, err)
			}
			fmt.Fprintf(stdout(cmd), "Wrote %s\n", o.configPath)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	configCmd.AddCommand(initCmd)
	return configCmd
}
