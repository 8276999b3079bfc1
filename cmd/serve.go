package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/driveclip/driveclip/internal/actions"
	"github.com/driveclip/driveclip/internal/archive"
	"github.com/driveclip/driveclip/internal/config"
	"github.com/driveclip/driveclip/internal/drive"
	"github.com/driveclip/driveclip/internal/gmail"
	"github.com/driveclip/driveclip/internal/google"
	"github.com/driveclip/driveclip/internal/instrumentation"
	"github.com/driveclip/driveclip/internal/server"
	"github.com/driveclip/driveclip/internal/settings"
)

func newServeCmd() *cobra.Command {
	var listenAddr, metricsAddr string
	var metricsEnabled bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP action server",
		Long: `Start the HTTP server exposing the add-on actions under /actions/{name}.
Prometheus metrics are served on a dedicated port.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(listenAddr, metricsAddr, metricsEnabled)
		},
	}

	cmd.Flags().StringVar(&listenAddr, "listen-addr", "", "Action server address (default from config)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Metrics server address (default from config)")
	cmd.Flags().BoolVar(&metricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port")
	return cmd
}

func runServe(listenAddr, metricsAddr string, metricsEnabled bool) error {
	// Graceful shutdown on SIGINT/SIGTERM
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	if listenAddr == "" {
		listenAddr = cfg.Server.ListenAddr
	}
	if metricsAddr == "" {
		metricsAddr = cfg.Server.MetricsAddr
	}

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			slog.Error("instrumentation shutdown failed", "error", err)
		}
	}()
	google.SetMetrics(provider.Metrics())

	store, err := settings.NewStore(cfg.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open settings store: %w", err)
	}
	defer store.Close()

	logger := slog.Default()

	registry := actions.NewRegistry(actions.Deps{
		NewArchiver: func(ctx context.Context, account string) (actions.Archiver, error) {
			gmailClient, err := gmail.NewClientForAccount(ctx, account)
			if err != nil {
				return nil, fmt.Errorf("failed to create Gmail client for account %s: %w", account, err)
			}
			driveClient, err := drive.NewClientForAccount(ctx, account)
			if err != nil {
				return nil, fmt.Errorf("failed to create Drive client for account %s: %w", account, err)
			}
			driveClient.WithMetrics(provider.Metrics())
			archiver := archive.New(gmailClient, driveClient, gmailClient, archive.NewAssembler(loc), logger)
			return archiver.WithMetrics(provider.Metrics()), nil
		},
		NewLister: func(ctx context.Context, account string) (actions.Lister, error) {
			driveClient, err := drive.NewClientForAccount(ctx, account)
			if err != nil {
				return nil, err
			}
			return driveClient.WithMetrics(provider.Metrics()), nil
		},
		Settings: store,
		Logger:   logger,
		Metrics:  provider.Metrics(),
	})

	health := server.NewHealthChecker()

	actionServer, err := server.NewActionServer(server.ActionServerConfig{
		Addr:     listenAddr,
		Registry: registry,
		Metrics:  provider.Metrics(),
		Health:   health,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create action server: %w", err)
	}

	serverErr := make(chan error, 2)

	var metricsServer *server.MetricsServer
	if metricsEnabled && provider.Enabled() {
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    metricsAddr,
			InstrumentationProvider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}
		go func() {
			if err := metricsServer.Start(); err != nil && err != http.ErrServerClosed {
				serverErr <- fmt.Errorf("metrics server failed: %w", err)
			}
		}()
	}

	go func() {
		if err := actionServer.Start(); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("action server failed: %w", err)
		}
	}()

	select {
	case <-shutdownCtx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		return err
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
	defer stopCancel()

	if err := actionServer.Shutdown(stopCtx); err != nil {
		logger.Error("action server shutdown failed", "error", err)
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(stopCtx); err != nil {
			logger.Error("metrics server shutdown failed", "error", err)
		}
	}

	return nil
}
