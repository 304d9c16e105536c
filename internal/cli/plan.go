package cli

import (
	"github.com/spf13/cobra"

	"github.com/fjglira/featureplan/internal/config"
	"github.com/fjglira/featureplan/internal/planner"
)

var (
	tagExpression string
	namePatterns  []string
	outputFile    string
)

var planCmd = &cobra.Command{
	Use:   "plan [feature paths...]",
	Short: "Write the test plan for the scenarios matching a tag expression",
	Long: `Selects every feature file with at least one scenario matching --tags and
--name, then writes their contents joined by a blank line to --output (stdout by
default). Feature paths may be files, directories or "file.feature:LINE".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := prepareWithFilters(args)
		if err != nil {
			return err
		}

		p := planner.NewFromConfig(cfg, cmd.OutOrStdout(), log)
		_, err = p.Plan(cmd.Context(), cfg)
		return err
	},
}

func init() {
	addFilterFlags(planCmd)
	planCmd.Flags().StringVarP(&outputFile, "output", "o", "", `file to write the plan to ("-" for stdout)`)
	rootCmd.AddCommand(planCmd)
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&tagExpression, "tags", "t", "", `tag expression, e.g. "@smoke and not @slow"`)
	cmd.Flags().StringArrayVarP(&namePatterns, "name", "n", nil, "only scenarios whose name matches this regex (repeatable)")
}

// prepareWithFilters layers positional feature paths and the filter flags over
// the loaded configuration before validating it.
func prepareWithFilters(args []string) (*config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	if len(args) > 0 {
		cfg.Input.FeaturePaths = args
	}
	if tagExpression != "" {
		cfg.Filter.TagExpression = tagExpression
	}
	if len(namePatterns) > 0 {
		cfg.Filter.Names = namePatterns
	}
	if outputFile != "" {
		cfg.Output.File = outputFile
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	if err := configureLogging(cfg); err != nil {
		return nil, err
	}
	log.Debugf("Loaded config: %+v", cfg)
	return cfg, nil
}
