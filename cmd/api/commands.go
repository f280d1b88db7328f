package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"storefront/internal/config"
	"storefront/internal/logging"
	"storefront/internal/repository"
	"storefront/internal/server"
	"storefront/internal/store"
)

// storefront serve: arranca el servidor HTTP
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

// storefront seed: crea los documentos por defecto que falten y termina
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the default catalog and bookings documents if missing",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		_, s, logger, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		created, err := repository.EnsureDefaults(ctx, s)
		if err != nil {
			return err
		}
		if len(created) == 0 {
			logger.Info().Msg("nothing to seed")
			return nil
		}
		logger.Info().Strs("keys", created).Msg("✅ default documents created")
		return nil
	},
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, s, logger, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	created, err := repository.EnsureDefaults(ctx, s)
	if err != nil {
		return err
	}
	if len(created) > 0 {
		logger.Info().Strs("keys", created).Msg("default documents created")
	}

	srv, err := server.New(ctx, cfg, s, logger)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}

// bootstrap carga la configuración, inicializa el logger y abre el store
func bootstrap(ctx context.Context) (*config.Config, store.Store, zerolog.Logger, error) {
	cfg := config.LoadConfig()
	logger := logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: os.Stdout,
	})

	if err := cfg.Validate(); err != nil {
		return nil, nil, logger, err
	}

	s, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, nil, logger, fmt.Errorf("open %s store: %w", cfg.StorageDriver, err)
	}
	return cfg, s, logger, nil
}
