package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-dashboard/internal/dataset"
	"github.com/pgEdge/pgedge-dashboard/internal/db"
	"github.com/pgEdge/pgedge-dashboard/internal/logging"
)

var importDropExisting bool

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Copy the CSV dataset into PostgreSQL",
	Long: `Copy the nine dataset files from the data directory into PostgreSQL
tables named <table_prefix><table>, for use with --source postgres. Columns
are stored as TEXT and parsed by the analyses exactly as the CSV files are.

Example:
  pgedge-dashboard import --data-dir ./E-commerce-public-dataset --connection "postgres://..."
  pgedge-dashboard import --connection "postgres://..." --drop-existing`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importDropExisting, "drop-existing", false,
		"drop previously imported tables with the same prefix")
}

func runImport(cmd *cobra.Command, args []string) error {
	if err := cfg.ValidateImport(); err != nil {
		return err
	}

	d, err := dataset.LoadDir(cfg.DataDir)
	if err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Connection)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	// Refuse to overwrite an earlier import unless asked to
	importedAt, err := db.GetMetadataValue(ctx, pool, cfg.TablePrefix, "imported_at")
	switch {
	case err == nil && !importDropExisting:
		return fmt.Errorf(
			"a dataset with prefix '%s' was already imported at %s; "+
				"use --drop-existing to replace it",
			cfg.TablePrefix, importedAt)
	case err == nil:
		logging.Warn().
			Str("prefix", cfg.TablePrefix).
			Str("imported_at", importedAt).
			Msg("Replacing existing import")
	case !errors.Is(err, db.ErrNotImported):
		return err
	}

	logging.Info().
		Str("data_dir", cfg.DataDir).
		Str("prefix", cfg.TablePrefix).
		Msg("Importing dataset")

	total, err := dataset.ImportTx(ctx, pool, d, dataset.ImportOptions{
		Prefix:       cfg.TablePrefix,
		SourceDir:    cfg.DataDir,
		DropExisting: importDropExisting,
	})
	if err != nil {
		return err
	}

	logging.Info().
		Str("prefix", cfg.TablePrefix).
		Int64("rows", total).
		Msg("Dataset import complete")
	return nil
}
