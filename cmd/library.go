package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/goconn/internal/capacity"
	"github.com/alexiusacademia/goconn/internal/report"
)

var (
	libraryFile    string
	libraryType    string
	librarySection string
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Inspect a connection capacity library",
	Long: `List the sections and capacity tiers held by a capacity library.

A library is either one JSON file keyed by connection type, or a
directory with the files mep_capacities.json, web_cope_capacities.json
and bp_capacities.json.

Examples:
  # Summary of every connection type
  goconn library --file capacities.json

  # Capacities of one section
  goconn library -f capacities/ --type "Web Cleat" --section W310x39`,
	RunE: runLibrary,
}

func init() {
	rootCmd.AddCommand(libraryCmd)

	libraryCmd.Flags().StringVarP(&libraryFile, "file", "f", "", "Capacity library file or directory (default $GOCONN_LIBRARY)")
	libraryCmd.Flags().StringVarP(&libraryType, "type", "t", "", "Only this connection type")
	libraryCmd.Flags().StringVarP(&librarySection, "section", "s", "", "Show the capacities of one section")
}

func runLibrary(cmd *cobra.Command, args []string) error {
	lib, src, err := loadLibrary(libraryFile)
	if err != nil {
		return err
	}

	types := capacity.ConnectionTypes
	if libraryType != "" {
		t, err := capacity.ParseConnectionType(libraryType)
		if err != nil {
			return err
		}
		types = []capacity.ConnectionType{t}
	}

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("          CONNECTION CAPACITY LIBRARY")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Printf("  Source: %s\n", src)
	fmt.Println()

	for _, t := range types {
		fmt.Printf("%s:\n", strings.ToUpper(t.String()))
		fmt.Println("───────────────────────────────────────────────────────────────")
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

		if librarySection != "" {
			if !lib.HasSection(t, librarySection) {
				fmt.Fprintf(w, "  %s:\tnot in library\n", librarySection)
			} else {
				fmt.Fprintf(w, "  Tier\tShear\tAxial\tMoment Top\tMoment Bottom\n")
				for _, tier := range lib.Tiers(t, librarySection) {
					rec, _ := lib.Lookup(t, librarySection, tier)
					fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\n", tier,
						value(rec.Shear), value(rec.Axial), value(rec.MomentTop), value(rec.MomentBottom))
				}
			}
		} else {
			fmt.Fprintf(w, "  Sections:\t%d\n", lib.Size(t))
			fmt.Fprintf(w, "  Design tier order:\t%s\n", strings.Join(capacity.DefaultTiers(t), ", "))
			for _, s := range lib.Sections(t) {
				fmt.Fprintf(w, "  %s\t%s\n", s, strings.Join(lib.Tiers(t, s), ", "))
			}
		}
		w.Flush()
		fmt.Println()
	}
	return nil
}

func value(v *float64) string {
	if v == nil {
		return report.Placeholder
	}
	return fmt.Sprintf("%.2f", *v)
}
