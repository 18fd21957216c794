package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-dashboard/internal/logging"
	"github.com/pgEdge/pgedge-dashboard/internal/web"
)

var (
	serveAddr     string
	serveCurrency string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard over HTTP",
	Long: `Start the web dashboard. Every page view reloads the dataset from the
configured source and recomputes both analyses, so changes to the CSV files
or the imported tables show up on the next refresh. The server runs until
interrupted with Ctrl+C.

Example:
  pgedge-dashboard serve --data-dir ./E-commerce-public-dataset
  pgedge-dashboard serve --addr :8080 --source postgres --connection "postgres://..."`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "",
		"listen address (default: 127.0.0.1:8501)")
	serveCmd.Flags().StringVar(&serveCurrency, "currency", "",
		"currency symbol shown before prices (default: R$)")
}

func runServe(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if serveAddr != "" {
		cfg.Serve.Addr = serveAddr
	}
	if serveCurrency != "" {
		cfg.Serve.CurrencySymbol = serveCurrency
	}

	if err := cfg.ValidateServe(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case sig := <-sigChan:
			logging.Info().
				Str("signal", sig.String()).
				Msg("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	src, closeSource, err := openSource(ctx)
	if err != nil {
		return err
	}
	defer closeSource()

	server := web.NewServer(src, web.Options{
		Addr:           cfg.Serve.Addr,
		ReadTimeout:    time.Duration(cfg.Serve.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.Serve.WriteTimeout) * time.Second,
		CurrencySymbol: cfg.Serve.CurrencySymbol,
	})

	logging.Info().
		Str("addr", cfg.Serve.Addr).
		Str("source", src.Describe()).
		Msg("Starting dashboard")

	if err := server.Run(ctx); err != nil {
		return err
	}

	logging.Info().Msg("Dashboard stopped")
	return nil
}
