package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Edwardko2004/CS391-Project/api"
	"github.com/Edwardko2004/CS391-Project/config"
	"github.com/Edwardko2004/CS391-Project/internal/service/events"
	"github.com/Edwardko2004/CS391-Project/internal/service/ledger"
)

// Pinger is a dependency the health check pings.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Services struct {
	Events events.EventUseCase
	Ledger ledger.UseCase
	// Health maps a dependency name to its pinger.
	Health map[string]Pinger
}

// Run serves the HTTP API and blocks until ctx is cancelled or the server fails.
func Run(ctx context.Context, cfg *config.Config, log *zap.Logger, svc Services) error {
	srv := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      NewRouter(cfg, log, svc),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("address", cfg.HTTP.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	case <-ctx.Done():
		timeout := cfg.HTTP.ShutdownTimeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		log.Info("shutting down http server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func NewRouter(cfg *config.Config, log *zap.Logger, svc Services) *gin.Engine {
	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), api.AccessLog(log))

	router.GET("/healthz", healthz(svc.Health))

	v1 := router.Group("/api/v1")
	auth := api.Authenticate(cfg.Auth)
	api.NewEventHandler(svc.Events, svc.Ledger).Register(v1, auth)
	api.NewReservationHandler(svc.Ledger, cfg.Reservation.QRCodeSizePixels).Register(v1, auth)
	api.NewMeHandler(svc.Ledger).Register(v1, auth)

	return router
}

func healthz(deps map[string]Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		checks := make(map[string]string, len(deps))
		for name, dep := range deps {
			if err := dep.Ping(ctx); err != nil {
				checks[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			checks[name] = "ok"
		}
		c.JSON(status, gin.H{"status": http.StatusText(status), "checks": checks})
	}
}
