package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sahanw/travelbooking/api"
	"github.com/sahanw/travelbooking/config"
	"github.com/sahanw/travelbooking/internal/service/booking"
	"github.com/sahanw/travelbooking/internal/service/resources"
)

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger,
	resourceSvc resources.ResourceUseCase, bookingSvc booking.BookingUseCase) error {

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: newRouter(cfg, logger, resourceSvc, bookingSvc),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newRouter(cfg *config.Config, logger *slog.Logger,
	resourceSvc resources.ResourceUseCase, bookingSvc booking.BookingUseCase) *gin.Engine {

	gin.SetMode(gin.ReleaseMode)
	api.RegisterValidators()

	router := gin.New()
	router.Use(gin.Recovery(), api.RequestID(), api.RequestLogger(logger))

	resourceHandler := api.NewResourceHandler(resourceSvc)
	bookingHandler := api.NewBookingHandler(bookingSvc)

	public := router.Group("/api")
	resourceHandler.RegisterPublic(public.Group("/resources"))

	authed := router.Group("/api", api.Auth(cfg.Auth.JWTSecret))
	bookingHandler.Register(authed.Group("/bookings"))
	resourceHandler.RegisterAdmin(authed.Group("/resources"))

	return router
}
