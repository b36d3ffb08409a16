package cmd

import (
	"github.com/spf13/cobra"

	"github.com/alexiusacademia/goconn/internal/report"
)

var checkFlags runFlags

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check group connections against their declared capacity tier",
	Long: `Check every frame of each assigned group against the capacity of the
connection declared for the group, for one load combination.

Frames are evaluated node by node and case by case; the first case that
exceeds a capacity decides the frame. Capacity ratios below 1.0 are shown
green, 1.0 to 1.1 orange and above 1.1 red.

Connection types:
  Web Cleat         - shear capacity against |F3|
  Moment End Plate  - shear and moment capacity in frame local axes
  Base Plate        - axial and shear capacity at base-level nodes

Examples:
  # Check using a run file
  goconn check --config run.yaml --model model.json --library capacities.json

  # Assign groups on the command line
  goconn check -m model.json -l capacities/ --combo ULS1 \
    -a "Beams=Web Cleat:30%" -a "Columns=Base Plate:50%"

  # From an ETABS workbook, with a PDF report and an elevation plot
  goconn check -x results.xlsx -c run.yaml --pdf report.pdf -o frames.png --view xz`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	addRunFlags(checkCmd, &checkFlags)
}

func runCheck(cmd *cobra.Command, args []string) error {
	return runConnections(report.ModeCheck, &checkFlags)
}
