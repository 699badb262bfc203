//-------------------------------------------------------------------------
//
// martgen - Dimensional Warehouse Builder
//
// Copyright (c) 2025 - 2026, Edgewise Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for martgen.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/edgewise-analytics/martgen/internal/config"
	"github.com/edgewise-analytics/martgen/internal/extract"
	"github.com/edgewise-analytics/martgen/internal/logging"
	"github.com/edgewise-analytics/martgen/pkg/version"
)

var (
	// Global flags
	cfgFile   string
	sourceDir string
	outputDir string
	logLevel  string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "martgen",
		Short: "Dimensional warehouse builder for relational extracts",
		Long: `martgen converts a flat relational extract (customers, orders, payments,
shipments, products) into a dimensional star-schema model: dimension tables
with surrogate keys and denormalized attributes, and fact tables with
calendar foreign keys and numeric measures.

Every run rebuilds the full warehouse from the current extract snapshot;
there is no incremental loading.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./martgen.yaml)")
	rootCmd.PersistentFlags().StringVar(&sourceDir, "source-dir", "",
		"directory holding the raw extract CSVs")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output-dir", "",
		"directory the warehouse tables are written to")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(tablesCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if sourceDir != "" {
		cfg.SourceDir = sourceDir
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List source and warehouse table names",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("Raw sources (expected as <name>.csv in the source directory):")
		for _, name := range extract.SourceNames {
			cmd.Println("  " + name)
		}
		cmd.Println()
		cmd.Println("Warehouse tables produced:")
		for _, name := range []string{
			"dim_calendar", "dim_customer", "dim_product", "dim_channel",
			"dim_address", "dim_store", "fact_sales_order",
			"fact_sales_order_item", "fact_payment", "fact_shipment",
			"fact_web_session", "fact_nps_response",
		} {
			cmd.Println("  " + name)
		}
	},
}
