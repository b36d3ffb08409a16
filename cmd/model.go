package cmd

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/goconn/internal/model"
	"github.com/alexiusacademia/goconn/internal/transform"
)

var (
	modelFile      string
	modelXlsxFile  string
	modelShowFrame bool
	modelExport    string
)

var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Inspect a structural model",
	Long: `Print the contents of a structural model: counts, groups, sections
and load combinations. With --frames, every frame is listed with its
end nodes, section and alignment.

Alignment is detected from the end node coordinates: +X and +Y frames
run horizontally with increasing coordinate, -X and -Y the other way,
and anything else (columns, skewed members) is undefined.

Examples:
  # Summary of a JSON snapshot
  goconn model --file model.json

  # Frames of an ETABS workbook, converted to a JSON snapshot
  goconn model --xlsx results.xlsx --frames --export model.json`,
	RunE: runModel,
}

func init() {
	rootCmd.AddCommand(modelCmd)

	modelCmd.Flags().StringVarP(&modelFile, "file", "f", "", "Model JSON snapshot")
	modelCmd.Flags().StringVarP(&modelXlsxFile, "xlsx", "x", "", "ETABS results workbook")
	modelCmd.Flags().BoolVar(&modelShowFrame, "frames", false, "List every frame")
	modelCmd.Flags().StringVarP(&modelExport, "export", "e", "", "Write the model as a JSON snapshot")
}

func runModel(cmd *cobra.Command, args []string) error {
	m, src, err := loadModel(modelFile, modelXlsxFile)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("          STRUCTURAL MODEL")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Printf("  Source: %s\n", src)
	fmt.Println()

	fmt.Println("CONTENTS:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Nodes:\t%d\n", len(m.Nodes))
	fmt.Fprintf(w, "  Frames:\t%d\n", len(m.Frames))
	fmt.Fprintf(w, "  Groups:\t%d\n", len(m.Groups))
	fmt.Fprintf(w, "  Sections:\t%d\n", len(m.Sections))
	fmt.Fprintf(w, "  Load combinations:\t%d\n", len(m.Combinations))
	w.Flush()
	fmt.Println()

	fmt.Println("GROUPS:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, g := range m.Groups {
		fmt.Fprintf(w, "  %s\t%d frames\n", g.Name, len(g.FrameIDs))
	}
	w.Flush()
	fmt.Println()

	fmt.Println("SECTIONS:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, s := range m.Sections {
		fmt.Fprintf(w, "  %s\t%d frames\n", s.Name, len(s.FrameIDs))
	}
	w.Flush()
	fmt.Println()

	fmt.Println("LOAD COMBINATIONS:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, c := range m.Combinations {
		fmt.Fprintf(w, "  %s\t%d frames\n", c.Name, len(c.Frames))
	}
	w.Flush()
	fmt.Println()

	if modelShowFrame {
		printFrames(m)
	}

	if modelExport != "" {
		data, err := m.MarshalJSON()
		if err != nil {
			return err
		}
		if err := os.WriteFile(modelExport, data, 0o644); err != nil {
			return fmt.Errorf("failed to write model: %w", err)
		}
		fmt.Printf("Model written to: %s\n", modelExport)
	}
	return nil
}

func printFrames(m *model.Model) {
	fmt.Println("FRAMES:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Frame\tNode I\tNode J\tSection\tAlignment\n")
	for _, id := range slices.Sorted(maps.Keys(m.Frames)) {
		f := m.Frames[id]
		section, ok := m.SectionOf(id)
		if !ok {
			section = "-"
		}
		align := "?"
		if a, err := transform.DetectAlignment(f, m); err == nil {
			align = a.String()
		}
		fmt.Fprintf(w, "  %d\t%d\t%d\t%s\t%s\n", id, f.NodeI, f.NodeJ, section, align)
	}
	w.Flush()
	fmt.Println()
}
