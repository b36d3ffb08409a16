package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/goconn/internal/etabs"
	"github.com/alexiusacademia/goconn/internal/nscp"
)

var (
	// Unfactored values, any force or moment component
	comboValues = make(map[nscp.LoadType]*float64)

	// Model inputs
	combosModelFile string
	combosXlsxFile  string
)

var combosCmd = &cobra.Command{
	Use:   "combos",
	Short: "List NSCP load combinations or the combinations of a model",
	Long: `Print the NSCP 2015 basic load combinations (Section 203.3.1).

Given unfactored values of one force component per load type, the factored
value of every combination is shown with the governing one marked. Given a
model, its load combinations are listed instead.

Load Types:
  dead        - Dead load (D)
  live        - Live load (L)
  roof        - Roof live load (Lr)
  wind        - Wind load (W)
  earthquake  - Earthquake load (E)
  rain        - Rain load (R)

Examples:
  # Factor table
  goconn combos

  # Factored shear for D=50, L=30, W=20
  goconn combos --dead 50 --live 30 --wind 20

  # Output cases of an ETABS workbook
  goconn combos --xlsx results.xlsx`,
	RunE: runCombos,
}

func init() {
	rootCmd.AddCommand(combosCmd)

	for _, t := range nscp.LoadTypes {
		comboValues[t] = new(float64)
		combosCmd.Flags().Float64Var(comboValues[t], t.String(), 0, fmt.Sprintf("Unfactored %s load value", t))
	}
	combosCmd.Flags().StringVarP(&combosModelFile, "model", "m", "", "List the combinations of a model JSON snapshot")
	combosCmd.Flags().StringVarP(&combosXlsxFile, "xlsx", "x", "", "List the output cases of an ETABS workbook")
}

func runCombos(cmd *cobra.Command, args []string) error {
	if combosXlsxFile != "" {
		names, err := etabs.ListCombinations(combosXlsxFile)
		if err != nil {
			return err
		}
		printModelCombos(combosXlsxFile, names)
		return nil
	}
	if combosModelFile != "" {
		m, src, err := loadModel(combosModelFile, "")
		if err != nil {
			return err
		}
		printModelCombos(src, m.CombinationNames())
		return nil
	}

	values := make(map[nscp.LoadType]float64)
	for t, v := range comboValues {
		if *v != 0 {
			values[t] = *v
		}
	}

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("          NSCP 2015 LOAD COMBINATIONS (Section 203.3)")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if len(values) == 0 {
		fmt.Fprintf(w, "  #\tName\tCombination\tD\tL\tLr\tW\tE\tR\n")
		fmt.Fprintf(w, "  ─\t────\t───────────\t─\t─\t──\t─\t─\t─\n")
		for _, lc := range nscp.LoadCombinations {
			fmt.Fprintf(w, "  %s\t%s\t%s", lc.ID, lc.Name(), lc.Description)
			for _, t := range nscp.LoadTypes {
				fmt.Fprintf(w, "\t%.1f", lc.Factor(t))
			}
			fmt.Fprintln(w)
		}
		w.Flush()
		fmt.Println()
		return nil
	}

	fmt.Println("UNFACTORED VALUES:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	for _, t := range nscp.LoadTypes {
		if v, ok := values[t]; ok {
			fmt.Fprintf(w, "  %s:\t%.2f\n", t, v)
		}
	}
	w.Flush()
	fmt.Println()

	gov, governing := nscp.Governing(values, nscp.LoadCombinations)

	fmt.Println("FACTORED VALUES:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  #\tCombination\tFactored\n")
	fmt.Fprintf(w, "  ─\t───────────\t────────\n")
	for _, lc := range nscp.LoadCombinations {
		marker := ""
		if lc.ID == governing.ID {
			marker = " ← GOVERNS"
		}
		fmt.Fprintf(w, "  %s\t%s\t%.2f%s\n", lc.ID, lc.Description, lc.Apply(values), marker)
	}
	w.Flush()
	fmt.Println()

	fmt.Println("RESULT:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	fmt.Printf("  Governing Combination: %s (%s)\n", governing.ID, governing.Description)
	fmt.Printf("  Factored value: %.2f\n", gov)
	fmt.Println()
	return nil
}

func printModelCombos(src string, names []string) {
	fmt.Println()
	fmt.Printf("LOAD COMBINATIONS: %s\n", src)
	fmt.Println("───────────────────────────────────────────────────────────────")
	if len(names) == 0 {
		fmt.Println("  (none)")
	}
	for i, n := range names {
		fmt.Printf("  %2d. %s\n", i+1, n)
	}
	fmt.Println()
}
