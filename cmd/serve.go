package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/InflatablePotato/amazon-price-tracker-api/internal/api"
	"github.com/InflatablePotato/amazon-price-tracker-api/internal/clock/system"
	"github.com/InflatablePotato/amazon-price-tracker-api/internal/config"
	"github.com/InflatablePotato/amazon-price-tracker-api/internal/logging"
	"github.com/InflatablePotato/amazon-price-tracker-api/internal/scraper"
	"github.com/InflatablePotato/amazon-price-tracker-api/internal/store/postgres"
	"github.com/InflatablePotato/amazon-price-tracker-api/internal/store/sqlite"
	"github.com/InflatablePotato/amazon-price-tracker-api/internal/tracker"
)

// newServeCmd creates and configures the 'serve' subcommand.
func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Starts the price tracker HTTP server",
		Long: `Starts the HTTP server exposing current-price, price-history, deals and
health endpoints. Every price request triggers a live page fetch and the
resulting observation is appended to the configured store.`,

		RunE: runServeCommand,
	}
	return cmd
}

func runServeCommand(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clk := system.New()

	store, err := buildStore(ctx, cfg, clk)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Warn("close store", zap.Error(cerr))
		}
	}()

	delayMin, delayMax := cfg.DelayBounds()
	seed := time.Now().UnixNano()
	extractor := scraper.New(
		cfg.Scraper.BaseURL,
		scraper.NewCollyFetcher(cfg.FetchTimeout(), logger),
		scraper.NewRandomHeaders(seed),
		scraper.NewUniformDelay(delayMin, delayMax, seed),
		logger,
	)

	service := tracker.NewService(extractor, store, clk, logger)
	server := api.NewServer(service, clk, logger)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.Int("port", cfg.Server.Port))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
	}
	return nil
}

func buildStore(ctx context.Context, cfg config.Config, clk tracker.Clock) (tracker.Store, error) {
	switch cfg.Store.Provider {
	case config.StoreProviderSQLite:
		return sqlite.Open(cfg.Store.Path, clk)
	case config.StoreProviderPostgres:
		return postgres.Open(ctx, cfg.Store.DSN, clk)
	default:
		return nil, fmt.Errorf("unknown store provider: %s", cfg.Store.Provider)
	}
}
