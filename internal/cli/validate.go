package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fjglira/featureplan/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the featureplan configuration file",
	Long:  `Loads the configuration file and checks for missing feature paths, malformed tag expressions and name patterns, and invalid values.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		config.ApplyEnv(cfg)

		if err := config.Validate(cfg); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Configuration file %q is valid.\n", cfgFile)
		log.Debugf("Loaded config: %+v", cfg)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
