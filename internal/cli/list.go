package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/fjglira/featureplan/internal/planner"
)

var (
	fileColor  = color.New(color.FgGreen)
	countColor = color.New(color.FgYellow, color.Bold)
)

var listCmd = &cobra.Command{
	Use:   "list [feature paths...]",
	Short: "List the feature files that would go into the test plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := prepareWithFilters(args)
		if err != nil {
			return err
		}

		files, err := planner.NewFromConfig(cfg, cmd.OutOrStdout(), log).Select(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, f := range files {
			fileColor.Fprintln(out, f)
		}
		countColor.Fprintf(out, "%d active feature file(s)\n", len(files))
		return nil
	},
}

func init() {
	addFilterFlags(listCmd)
	rootCmd.AddCommand(listCmd)
}
