package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/farellandr/eventgate/config"
	"github.com/farellandr/eventgate/internal/clock"
	"github.com/farellandr/eventgate/internal/handlers"
	"github.com/farellandr/eventgate/internal/middleware"
	"github.com/farellandr/eventgate/internal/services"
	"github.com/farellandr/eventgate/internal/storage/memory"
	"github.com/farellandr/eventgate/internal/storage/postgres"
	"github.com/gin-gonic/gin"
)

type Dependencies struct {
	Store          services.Store
	Clock          clock.Clock
	JWTSecret      string
	QRSize         int
	RequestTimeout time.Duration
	Logger         *log.Logger
}

func NewRouter(deps Dependencies) *gin.Engine {
	if deps.Clock == nil {
		deps.Clock = clock.NewSystem()
	}
	if deps.Logger == nil {
		deps.Logger = log.Default()
	}

	h := handlers.NewHandler(
		services.NewEventService(deps.Store),
		services.NewRegistrationService(deps.Store, deps.Clock),
		services.NewTicketService(deps.Store, deps.Clock, services.WithRenderer(services.QRRenderer(deps.QRSize))),
		services.NewCheckInService(deps.Store, deps.Clock),
		deps.Logger,
	)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middleware.RequestID(), middleware.RequestTimeout(deps.RequestTimeout))

	setupRoutes(r, h, deps.JWTSecret)
	return r
}

func setupRoutes(r *gin.Engine, h *handlers.Handler, jwtSecret string) {
	r.GET("/health", handlers.HealthCheck)

	public := r.Group("/v1")
	{
		eventPublic := public.Group("/events")
		{
			eventPublic.GET("", h.ListEvents)
			eventPublic.GET("/:id", h.GetEvent)
		}
	}

	protected := r.Group("/v1")
	protected.Use(middleware.JWTAuthMiddleware(jwtSecret))
	{
		eventProtected := protected.Group("/events")
		{
			eventProtected.POST("", h.CreateEvent)
			eventProtected.POST("/:id/register", h.Register)
			eventProtected.GET("/:id/registration", h.GetRegistration)
			eventProtected.POST("/:id/generateQR", h.GenerateTicketQR)
			eventProtected.GET("/:id/event-qrcodes", h.ListEventTickets)
			eventProtected.PATCH("/:id/qr-check-in", h.CheckIn)
		}
	}
}

// openStore returns the configured store and a function releasing it.
func openStore(cfg *config.Config) (services.Store, func() error, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		return memory.New(), func() error { return nil }, nil
	default:
		db, err := config.InitDatabase(cfg.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return postgres.New(db), sqlDB.Close, nil
	}
}

// Start serves until ctx is cancelled, then drains in-flight requests.
func Start(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	store, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Printf("close store: %v", err)
		}
	}()

	r := NewRouter(Dependencies{
		Store:          store,
		Clock:          clock.NewSystem(),
		JWTSecret:      cfg.JWTSecret,
		QRSize:         cfg.QRSize,
		RequestTimeout: cfg.RequestTimeout,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("%s listening on %s (store=%s)", cfg.ServiceName, srv.Addr, cfg.StoreDriver)
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

	logger.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
