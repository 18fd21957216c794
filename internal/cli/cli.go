//-------------------------------------------------------------------------
//
// pgEdge E-Commerce Dashboard
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for pgedge-dashboard.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-dashboard/internal/analysis"
	"github.com/pgEdge/pgedge-dashboard/internal/config"
	"github.com/pgEdge/pgedge-dashboard/internal/dataset"
	"github.com/pgEdge/pgedge-dashboard/internal/db"
	"github.com/pgEdge/pgedge-dashboard/internal/logging"
	"github.com/pgEdge/pgedge-dashboard/pkg/version"
)

var (
	// Global flags
	cfgFile     string
	dataDir     string
	source      string
	connection  string
	tablePrefix string
	logLevel    string
	logFormat   string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "pgedge-dashboard",
		Short: "Descriptive analytics dashboard for an e-commerce dataset",
		Long: `pgedge-dashboard loads the nine tables of a public e-commerce dataset,
from CSV files or from PostgreSQL, computes two descriptive analyses and
serves them as a small web dashboard:

  - the product with the most positive reviews, and whether it is cheap
    or expensive relative to the median product price
  - the average delivery time for each geographic location

The dataset is reloaded and both analyses recomputed on every page view.`,
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
		"config file (default: ./pgedge-dashboard.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "",
		"directory holding the dataset CSV files")
	rootCmd.PersistentFlags().StringVar(&source, "source", "",
		"dataset source: csv or postgres")
	rootCmd.PersistentFlags().StringVar(&connection, "connection", "",
		"PostgreSQL connection string")
	rootCmd.PersistentFlags().StringVar(&tablePrefix, "table-prefix", "",
		"prefix of the imported PostgreSQL tables (default: olist_)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"log format (console, json)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(analysesCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(importCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if source != "" {
		cfg.Source = source
	}
	if connection != "" {
		cfg.Connection = connection
	}
	if tablePrefix != "" {
		cfg.TablePrefix = tablePrefix
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	return nil
}

// openSource builds the configured dataset source. The returned close
// function releases any database pool.
func openSource(ctx context.Context) (dataset.Source, func(), error) {
	if cfg.Source != config.SourcePostgres {
		return dataset.DirSource{Dir: cfg.DataDir}, func() {}, nil
	}

	pool, err := db.Connect(ctx, cfg.Connection)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return dataset.PostgresSource{DB: pool, Prefix: cfg.TablePrefix}, pool.Close, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}

var analysesCmd = &cobra.Command{
	Use:   "analyses",
	Short: "List available analyses",
	Long: `List the analyses the dashboard can display. The identifier is
accepted by 'analyze --analysis' and by the page's ?analysis= parameter.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("Available analyses:")
		cmd.Println()
		for _, k := range analysis.Kinds() {
			cmd.Printf("  %-20s - %s\n", k.Slug(), k.Label())
			cmd.Printf("  %-20s   %s\n", "", k.Description())
		}
	},
}
