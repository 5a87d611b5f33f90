package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/flo-app/flo-backend/api/controllers"
	"github.com/flo-app/flo-backend/api/middleware"
	"github.com/flo-app/flo-backend/internal/auth"
	"github.com/flo-app/flo-backend/internal/reports"
	"github.com/flo-app/flo-backend/internal/users"
	"github.com/flo-app/flo-backend/pkg/config"
	"github.com/flo-app/flo-backend/pkg/db"
	"github.com/flo-app/flo-backend/pkg/logger"
	"github.com/flo-app/flo-backend/pkg/metrics"
	pkgredis "github.com/flo-app/flo-backend/pkg/redis"
)

// RedisBackend is the slice of the Redis client the HTTP layer depends on.
type RedisBackend interface {
	pkgredis.Pinger
	pkgredis.IdempotencyStore
	pkgredis.RateLimiter
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	gatherer prometheus.Gatherer,
	httpMetrics *metrics.HTTPMetrics,
	dbP db.Pinger,
	redisClient RedisBackend,
	authService auth.Service,
	usersService users.Service,
	reportsService reports.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.CORS),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, readinessDeps(dbP, redisClient), logg))
	})
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/contacts", controllers.ContactsDirectory())

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
			r.Post("/refresh", controllers.AuthRefresh(authService, logg))
			r.Post("/logout", controllers.AuthLogout(authService, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/", controllers.AuthRegister(authService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(authService, logg))
				r.Get("/me", controllers.UsersMe(usersService, logg))
				r.Put("/{id}", controllers.UsersUpdate(usersService, logg))
				r.Delete("/{id}", controllers.UsersDeactivate(usersService, logg))
			})
		})

		r.Route("/reports", func(r chi.Router) {
			r.With(
				middleware.OptionalAuth(authService, logg),
				middleware.Idempotency(redisClient, middleware.ReportIdempotencyRules(cfg.Idempotency.TTL), logg),
			).Post("/", controllers.ReportsCreate(reportsService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(authService, logg))
				r.Get("/", controllers.ReportsList(reportsService, logg))
				r.Get("/user/{userId}", controllers.ReportsByUser(reportsService, logg))
				r.Get("/{id}", controllers.ReportsGet(reportsService, logg))
				r.Put("/{id}/status", controllers.ReportsUpdateStatus(reportsService, logg))
			})
		})
	})

	return r
}

func readinessDeps(dbP db.Pinger, redisClient RedisBackend) map[string]controllers.Pinger {
	deps := map[string]controllers.Pinger{}
	if dbP != nil {
		deps["postgres"] = dbP
	}
	if redisClient != nil {
		deps["redis"] = redisClient
	}
	return deps
}
