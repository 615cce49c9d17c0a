package wire

import (
	"context"
	"net/http"
	"strings"
	"time"

	"barber-booking/internal/adaptor"
	"barber-booking/internal/data/entity"
	"barber-booking/internal/data/repository"
	"barber-booking/internal/usecase"
	"barber-booking/pkg/middleware"
	"barber-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// App holds the wired router and the services behind it.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// guards are the middleware chains shared by the route files.
type guards struct {
	auth      func(http.Handler) http.Handler
	owner     func(http.Handler) http.Handler
	rateLimit func(http.Handler) http.Handler
}

func Wiring(
	db Pinger,
	repo *repository.Repository,
	notifier usecase.Notifier,
	limiter middleware.Limiter,
	config *utils.Config,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, notifier, config, logger)
	handler := adaptor.NewHandler(service, logger)

	g := guards{
		auth:      middleware.Auth(config.JWT.Secret, repo.Session, repo.User, logger),
		owner:     middleware.RequireRole(logger, string(entity.RoleOwner)),
		rateLimit: middleware.RateLimit(limiter, config.RateLimit.FailOpen, logger),
	}

	return &App{
		Router:  setupRouter(db, handler, g, config, logger),
		Service: service,
	}
}

func setupRouter(db Pinger, handler *adaptor.Handler, g guards, config *utils.Config, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(strings.Split(config.App.FrontendURL, ",")...))

	wireAuth(r, handler.Auth, g)
	wireUser(r, handler.User, g)
	wireService(r, handler.Service, g)
	wireBooking(r, handler.Booking, handler.Block, g)
	wireSchedule(r, handler.Schedule, handler.Block, g)
	wireStats(r, handler.Stats, g)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			logger.Warn("Health check failed", zap.Error(err))
			utils.ResponseError(w, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unavailable", nil)
			return
		}
		utils.ResponseSuccess(w, "OK", nil)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseNotFound(w, "Route not found")
	})

	return r
}
