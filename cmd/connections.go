package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alexiusacademia/goconn/internal/config"
	"github.com/alexiusacademia/goconn/internal/diagram"
	"github.com/alexiusacademia/goconn/internal/engine"
	"github.com/alexiusacademia/goconn/internal/nscp"
	"github.com/alexiusacademia/goconn/internal/report"
)

// runFlags are the flags shared by check and design.
type runFlags struct {
	configFile string
	modelFile  string
	xlsxFile   string
	library    string
	combo      string
	assign     []string
	nscpID     string
	patterns   []string

	jsonFile string
	pdfFile  string
	plotFile string
	view     string
	colorBy  string
	bars     bool
	graph    bool
}

func addRunFlags(c *cobra.Command, f *runFlags) {
	c.Flags().StringVarP(&f.configFile, "config", "c", "", "YAML run file with group assignments")
	c.Flags().StringVarP(&f.modelFile, "model", "m", "", "Model JSON snapshot")
	c.Flags().StringVarP(&f.xlsxFile, "xlsx", "x", "", "ETABS results workbook")
	c.Flags().StringVarP(&f.library, "library", "l", "", "Capacity library file or directory (default $"+config.LibraryEnv+")")
	c.Flags().StringVar(&f.combo, "combo", "", "Load combination to evaluate")
	c.Flags().StringArrayVarP(&f.assign, "assign", "a", nil, `Group assignment "GROUP=TYPE[:TIER]" (repeatable)`)
	c.Flags().StringVar(&f.nscpID, "nscp", "", "Evaluate NSCP 2015 combination ID built from --pattern mappings")
	c.Flags().StringArrayVar(&f.patterns, "pattern", nil, `Load pattern "TYPE=COMBINATION", e.g. dead=DEAD (repeatable)`)

	c.Flags().StringVar(&f.jsonFile, "json", "", `Write serialised results as JSON ("-" for stdout)`)
	c.Flags().StringVar(&f.pdfFile, "pdf", "", "Write a PDF calculation report")
	c.Flags().StringVarP(&f.plotFile, "plot", "o", "", "Export ratio plot to file (png, svg, pdf)")
	c.Flags().StringVar(&f.view, "view", string(diagram.ViewXZ), "Plot projection: xy, xz or yz")
	c.Flags().StringVar(&f.colorBy, "color-by", string(diagram.ColorByRatio), "Plot frame colours: ratio or group")
	c.Flags().BoolVar(&f.bars, "bars", false, "Show ASCII capacity ratio bars")
	c.Flags().BoolVar(&f.graph, "graph", false, "Show an ASCII graph of capacity ratios")
}

// runFile assembles the run configuration from the run file and flags.
// Flags override the file.
func (f *runFlags) runFile(mode report.Mode) (*config.RunFile, error) {
	rf := &config.RunFile{}
	if f.configFile != "" {
		loaded, err := config.LoadFromFile(f.configFile)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.configFile, err)
		}
		rf = loaded
	}
	rf.Mode = mode.String()

	for _, s := range f.assign {
		a, err := parseAssign(s)
		if err != nil {
			return nil, err
		}
		rf.Assignments = append(rf.Assignments, a)
	}
	if f.combo != "" {
		rf.LoadCombination = f.combo
		rf.NSCP = nil
	}
	if f.nscpID != "" {
		run := &config.NSCPRun{Combination: f.nscpID, Patterns: make(map[string]string)}
		for _, p := range f.patterns {
			k, v, ok := strings.Cut(p, "=")
			if !ok || k == "" || v == "" {
				return nil, fmt.Errorf("invalid --pattern %q (want TYPE=COMBINATION)", p)
			}
			run.Patterns[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
		}
		rf.NSCP = run
	}
	if f.library != "" {
		rf.Library = f.library
	}
	rf.ApplyEnv()

	if err := rf.Validate(); err != nil {
		return nil, err
	}
	return rf, nil
}

func parseAssign(s string) (config.Assignment, error) {
	group, rest, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(group) == "" || strings.TrimSpace(rest) == "" {
		return config.Assignment{}, fmt.Errorf("invalid --assign %q (want GROUP=TYPE[:TIER])", s)
	}
	conn, tier, _ := strings.Cut(rest, ":")
	return config.Assignment{
		Group:      strings.TrimSpace(group),
		Connection: strings.TrimSpace(conn),
		Tier:       strings.TrimSpace(tier),
	}, nil
}

func runConnections(mode report.Mode, f *runFlags) error {
	rf, err := f.runFile(mode)
	if err != nil {
		return err
	}

	modelFile := f.modelFile
	if modelFile == "" && f.xlsxFile == "" {
		modelFile = rf.Model
	}
	m, modelSrc, err := loadModel(modelFile, f.xlsxFile)
	if err != nil {
		return err
	}
	lib, libSrc, err := loadLibrary(rf.Library)
	if err != nil {
		return err
	}

	if lc, patterns, ok, err := rf.Patterns(); err != nil {
		return err
	} else if ok {
		name, err := nscp.AddCombination(m, lc, patterns)
		if err != nil {
			return err
		}
		logger.Debug("factored combination built", zap.String("combination", name), zap.String("description", lc.Description))
	}

	assignments, err := rf.EngineAssignments()
	if err != nil {
		return err
	}
	tiers, err := rf.TierOrder()
	if err != nil {
		return err
	}
	opts := engine.Options{Logger: logger, Tiers: tiers}

	var res *report.Result
	if mode == report.ModeDesign {
		res, err = engine.Design(m, lib, rf.Combination(), assignments, opts)
	} else {
		res, err = engine.Check(m, lib, rf.Combination(), assignments, opts)
	}
	if err != nil {
		return err
	}

	if f.jsonFile == "-" {
		return report.WriteJSON(os.Stdout, res)
	}
	printResult(rf, res, modelSrc, libSrc, f)

	if f.jsonFile != "" {
		if err := writeJSONFile(f.jsonFile, res); err != nil {
			return fmt.Errorf("failed to write JSON: %w", err)
		}
		fmt.Printf("Results written to: %s\n", f.jsonFile)
	}
	if f.pdfFile != "" {
		meta := report.Meta{
			Project: rf.Project,
			Author:  rf.Author,
			Date:    time.Now(),
			Model:   modelSrc,
			Library: libSrc,
		}
		if err := report.WritePDFFile(f.pdfFile, res, meta); err != nil {
			return fmt.Errorf("failed to write PDF: %w", err)
		}
		fmt.Printf("Report written to: %s\n", f.pdfFile)
	}
	if f.plotFile != "" {
		view, err := diagram.ParseView(f.view)
		if err != nil {
			return err
		}
		by, err := diagram.ParseColorBy(f.colorBy)
		if err != nil {
			return err
		}
		if err := diagram.ExportFramePlot(m, res, f.plotFile, view, by); err != nil {
			return fmt.Errorf("failed to export plot: %w", err)
		}
		fmt.Printf("Plot exported to: %s\n", f.plotFile)
	}
	return nil
}

func printResult(rf *config.RunFile, res *report.Result, modelSrc, libSrc string, f *runFlags) {
	title := "CONNECTION CHECK"
	if res.Mode == report.ModeDesign {
		title = "CONNECTION DESIGN"
	}

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Printf("          %s - %s\n", title, res.LoadCombo)
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()

	fmt.Println("INPUT DATA:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if rf.Project != "" {
		fmt.Fprintf(w, "  Project:\t%s\n", rf.Project)
	}
	fmt.Fprintf(w, "  Model:\t%s\n", modelSrc)
	fmt.Fprintf(w, "  Capacity library:\t%s\n", libSrc)
	fmt.Fprintf(w, "  Load combination:\t%s\n", res.LoadCombo)
	for _, a := range rf.Assignments {
		conn := a.Connection
		if a.Tier != "" && res.Mode == report.ModeCheck {
			conn += " " + a.Tier
		}
		fmt.Fprintf(w, "  Group %s:\t%s\n", a.Group, conn)
	}
	w.Flush()
	fmt.Println()

	fmt.Println("RESULTS:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	fmt.Println(report.Table(res))
	fmt.Println()

	report.WriteSummaries(os.Stdout, res)

	if f.bars {
		fmt.Println(diagram.DrawRatioBars(res))
	}
	if f.graph {
		fmt.Println(diagram.DrawRatioGraph(res))
	}
	fmt.Print(diagram.DrawLegend())
	fmt.Println()
	fmt.Print(diagram.DrawSummaryBox("SUMMARY", diagram.ResultSummary(res)))
	fmt.Println()
}

func writeJSONFile(path string, res *report.Result) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.WriteJSON(out, res); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
