package cmd

import (
	"github.com/spf13/cobra"

	"github.com/alexiusacademia/goconn/internal/report"
)

var designFlags runFlags

var designCmd = &cobra.Command{
	Use:   "design",
	Short: "Find the weakest adequate capacity tier for each group",
	Long: `Search the capacity tiers of each group's connection type, weakest
first, for every frame of the group. A frame takes the first tier it
passes; the group is designed with the tier of the last frame that found
one. Frames that fail at every tier are listed as non-compliant.

Default tier order:
  Moment End Plate  70%/35%, 100%/50%
  Web Cleat         30%, 40%
  Base Plate        15%, 30%, 50%, 80%

The order can be overridden per connection type in the run file.

Examples:
  # Design using a run file
  goconn design --config run.yaml --model model.json --library capacities.json

  # Design for NSCP combination 2 built from unfactored patterns
  goconn design -x results.xlsx -l capacities/ -a "Beams=Web Cleat" \
    --nscp 2 --pattern dead=DEAD --pattern live=LIVE`,
	RunE: runDesign,
}

func init() {
	rootCmd.AddCommand(designCmd)
	addRunFlags(designCmd, &designFlags)
}

func runDesign(cmd *cobra.Command, args []string) error {
	return runConnections(report.ModeDesign, &designFlags)
}
