// Package server arma el router de gin con sus middlewares y gestiona el
// ciclo de vida del http.Server.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"storefront/internal/config"
	"storefront/internal/handlers"
	"storefront/internal/idgen"
	"storefront/internal/locks"
	"storefront/internal/logging"
	"storefront/internal/metrics"
	"storefront/internal/repository"
	"storefront/internal/routes"
	"storefront/internal/store"
)

const lockIdleTimeout = 10 * time.Minute

type Server struct {
	cfg     *config.Config
	logger  zerolog.Logger
	router  *gin.Engine
	locks   *locks.Registry
	metrics *metrics.Metrics
}

// New construye el router completo sobre el store dado. El store ya debe
// contener los documentos por defecto (ver repository.EnsureDefaults).
func New(ctx context.Context, cfg *config.Config, s store.Store, logger zerolog.Logger) (*Server, error) {
	gin.SetMode(cfg.GinMode)

	reg := locks.New(lockIdleTimeout)
	m := metrics.New()
	ids := idgen.NewMonotonic(nil)

	products := repository.NewProductRepository(s, reg, ids)
	// Los ids nuevos siempre quedan por encima de los existentes. Un catálogo
	// ilegible no impide arrancar: las rutas de productos responden 500 y
	// Create sigue evitando ids repetidos.
	if catalog, err := products.All(ctx); err != nil {
		logger.Warn().Err(err).Msg("catalog unreadable at startup, product routes will fail until it is fixed")
	} else {
		ids.Observe(catalog.MaxID())
	}

	h := routes.Handlers{
		Products: handlers.NewProductHandler(products, m),
		Bookings: handlers.NewBookingHandler(
			repository.NewBookingRepository(s, reg),
			routes.BookingOptions(cfg.Profile),
			m,
		),
		Carts: handlers.NewCartHandler(repository.NewCartRepository(s, reg), m),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logging.RequestLogger(logger))
	router.Use(m.Middleware())
	router.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	health := handlers.NewHealthHandler(cfg.Profile, cfg.StorageDriver)
	router.GET("/healthz", health.Health)
	router.GET("/metrics", m.Handler())

	routes.RegisterRoutes(router, h, cfg.Profile)

	return &Server{
		cfg:     cfg,
		logger:  logger,
		router:  router,
		locks:   reg,
		metrics: m,
	}, nil
}

// Handler expone el router, útil para tests con httptest
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run escucha en cfg.Port hasta que ctx se cancela y luego apaga el
// servidor esperando como máximo cfg.ShutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	defer s.locks.Close()

	srv := &http.Server{
		Addr:              net.JoinHostPort("", s.cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().
			Str("port", s.cfg.Port).
			Str("profile", s.cfg.Profile).
			Str("storage", s.cfg.StorageDriver).
			Msg("🚀 Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Close libera recursos cuando el servidor no llegó a ejecutar Run
func (s *Server) Close() {
	s.locks.Close()
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", logging.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", logging.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
