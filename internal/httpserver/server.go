package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	sloggin "github.com/samber/slog-gin"

	"github.com/PratikDhanave/event-ingest-service/internal/auth"
	"github.com/PratikDhanave/event-ingest-service/internal/config"
	"github.com/PratikDhanave/event-ingest-service/internal/handlers"
	"github.com/PratikDhanave/event-ingest-service/internal/ingest"
	"github.com/PratikDhanave/event-ingest-service/internal/store"
)

// NewRouter wires public endpoints and the ingestion API.
// Public: /health, /ready, /metrics
// Function key (when configured): POST /api/saveEvents
func NewRouter(cfg config.Config, st store.ObjectStore, log *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(sloggin.New(log))

	// Liveness: confirms the process is running.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness: confirms the storage backend is reachable.
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		if err := st.Ping(ctx); err != nil {
			log.WarnContext(c.Request.Context(), "storage not ready", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if cfg.Metrics.Enabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	api := r.Group("/")
	if len(cfg.Auth.FunctionKeys) > 0 {
		api.Use(auth.FunctionKeyMiddleware(cfg.Auth.FunctionKeys))
	} else {
		log.Warn("FUNCTION_KEYS not set; function key must be enforced by the hosting platform")
	}

	svc := ingest.NewService(st, log, cfg.Storage.Timeout)
	handlers.RegisterEventRoutes(api, handlers.NewEventIngestHandler(svc, log, cfg.Server.MaxBodyBytes))

	return r
}

// Run serves h on addr until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, addr string, h http.Handler, log *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
