package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alexiusacademia/goconn/internal/config"
	"github.com/alexiusacademia/goconn/internal/logging"
	"github.com/alexiusacademia/goconn/internal/version"
)

var (
	verbose bool
	envFile string

	// logger is built before any subcommand runs.
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "goconn",
	Short: "Steel Connection Check and Design Tool",
	Long: `goconn - Go Steel Connection Checker

A CLI tool for checking and designing the end connections of steel
frame members from structural analysis results.

This tool helps structural engineers perform:
  - Connection checks of Web Cleat, Moment End Plate and Base Plate
    connections against a tabulated capacity library
  - Connection design: the weakest adequate capacity tier per group
  - Factored load combinations per NSCP 2015 Section 203.3
  - Calculation reports (table, JSON, PDF) and ratio plots

Models are read from a JSON snapshot or an ETABS results workbook.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if envFile != "" {
			if err := config.LoadEnv(envFile); err != nil {
				return fmt.Errorf("failed to load %s: %w", envFile, err)
			}
		} else if err := config.LoadEnv(); err != nil {
			return fmt.Errorf("failed to load .env: %w", err)
		}
		l, err := logging.New(verbose)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println()
		fmt.Println("  ╔═══════════════════════════════════════════════════════════╗")
		fmt.Println("  ║                                                           ║")
		fmt.Printf("  ║   goconn v%-48s║\n", version.Version)
		fmt.Println("  ║   Go Steel Connection Checker                             ║")
		fmt.Printf("  ║   %-56s║\n", version.Author+" ©  "+version.Year)
		fmt.Println("  ║                                                           ║")
		fmt.Println("  ╚═══════════════════════════════════════════════════════════╝")
		fmt.Println()
		fmt.Println("  A CLI tool for checking and designing steel frame connections")
		fmt.Println("  from structural analysis results.")
		fmt.Println()
		fmt.Println("  Features:")
		fmt.Println("    • Connection check against a declared capacity tier")
		fmt.Println("    • Connection design by capacity tier search")
		fmt.Println("    • ETABS workbook import")
		fmt.Println("    • NSCP 2015 factored load combinations")
		fmt.Println("    • Table, JSON and PDF reports with ratio plots")
		fmt.Println()
		fmt.Println("  Use 'goconn --help' to see available commands.")
		fmt.Println()
		fmt.Println("  ─────────────────────────────────────────────────────────────")
		fmt.Printf("  Copyright © %s %s. All rights reserved.\n", version.Year, version.Author)
		fmt.Println()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging to stderr")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "Load environment defaults from this file (default ./.env if present)")
}
