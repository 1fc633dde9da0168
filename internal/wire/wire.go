// internal/wire/wire.go
package wire

import (
	"context"
	"net/http"
	"time"

	"venue-booking/internal/adaptor"
	"venue-booking/internal/data/entity"
	"venue-booking/internal/data/repository"
	"venue-booking/internal/usecase"
	"venue-booking/pkg/database"
	"venue-booking/pkg/middleware"
	"venue-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App holds the assembled router and the services behind it.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Infra is the connected infrastructure the router needs directly.
type Infra struct {
	DB    database.PgxIface
	Redis *redis.Client
}

// guards are the route middlewares shared by every domain.
type guards struct {
	auth  func(http.Handler) http.Handler
	limit func(http.Handler) http.Handler
	role  func(roles ...entity.UserRole) func(http.Handler) http.Handler
}

// Wiring builds services, handlers and routes.
func Wiring(
	repo *repository.Repository,
	config *utils.Config,
	deps usecase.Dependencies,
	infra Infra,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, config, deps, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, repo, config, deps, infra, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func newGuards(repo *repository.Repository, config *utils.Config, rdb *redis.Client, logger *zap.Logger) *guards {
	return &guards{
		auth:  middleware.AuthSession(config.JWT.Secret, repo.Session, logger),
		limit: middleware.RateLimit(config.RateLimit, rdb, logger),
		role: func(roles ...entity.UserRole) func(http.Handler) http.Handler {
			return middleware.RequireRole(repo.User, logger, roles...)
		},
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	deps usecase.Dependencies,
	infra Infra,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.Origins...))
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
	}

	g := newGuards(repo, config, infra.Redis, logger)

	wireAuth(r, handler.Auth, g)
	wireUser(r, handler.User, g)
	wireVenue(r, handler.Venue, g)
	wireProvider(r, handler.Provider, g)
	wireBooking(r, handler.Booking, g)
	wireReview(r, handler.Review, g)
	wireFavorite(r, handler.Favorite, g)
	wireAdmin(r, handler.Admin, g)

	r.Get("/health", healthCheck(infra, logger))

	if config.Metrics.Enabled {
		r.Handle(config.Metrics.Path, promhttp.Handler())
	}

	return r
}

// healthCheck pings postgres, and redis when it is configured.
func healthCheck(infra Infra, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := map[string]string{"database": "up"}
		if err := infra.DB.Ping(ctx); err != nil {
			logger.Error("Health check: database unreachable", zap.Error(err))
			utils.ResponseServiceUnavailable(w, "database unreachable")
			return
		}

		if infra.Redis != nil {
			status["redis"] = "up"
			if err := infra.Redis.Ping(ctx).Err(); err != nil {
				logger.Warn("Health check: redis unreachable", zap.Error(err))
				status["redis"] = "down"
			}
		}

		utils.ResponseSuccess(w, "OK", status)
	}
}
