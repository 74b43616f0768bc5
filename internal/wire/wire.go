package wire

import (
	"net/http"

	"room-booking/internal/adaptor"
	"room-booking/internal/cache"
	"room-booking/internal/data/repository"
	"room-booking/internal/ratelimit"
	"room-booking/internal/usecase"
	"room-booking/pkg/middleware"
	"room-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the wired dependencies
type App struct {
	Router *chi.Mux
}

// Wiring initializes all dependencies
func Wiring(
	repo *repository.Repository,
	limiterStore ratelimit.Store,
	cacheStore cache.Cache,
	config *utils.Config,
	logger *zap.Logger,
) *App {
	limiter := ratelimit.NewLimiter(limiterStore, config.RateLimit.Capacity, config.RateLimit.Window, logger)

	service := usecase.NewService(repo, limiter, cacheStore, config, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, repo, logger)

	return &App{
		Router: router,
	}
}

// setupRouter configures the chi router
func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	// Apply routes
	wireAuth(r, handler.Auth, repo, logger)
	wireRoom(r, handler.Room)
	wireBooking(r, handler.Booking, repo, logger)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
