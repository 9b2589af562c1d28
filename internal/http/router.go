package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gracechapel/churchsite/internal/auth"
	"github.com/gracechapel/churchsite/internal/cache"
	"github.com/gracechapel/churchsite/internal/config"
	lifecycle "github.com/gracechapel/churchsite/internal/content"
	domain "github.com/gracechapel/churchsite/internal/domain/content"
	"github.com/gracechapel/churchsite/internal/http/handlers"
	"github.com/gracechapel/churchsite/internal/http/middlewares"
	"github.com/gracechapel/churchsite/internal/observability"
	"github.com/gracechapel/churchsite/internal/ratelimit"
	"github.com/gracechapel/churchsite/internal/repo/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const maxBodyBytes = 1 << 20 // 1 MiB, bodies are small JSON documents

// NewRouter wires the full HTTP surface: public reads, rate limited auth,
// and role gated content mutations.
func NewRouter(
	cfg config.Config,
	log *slog.Logger,
	pool *pgxpool.Pool,
	prom *observability.Prom,
	limiter ratelimit.Limiter,
) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.Use(otelgin.Middleware("churchsite"))
	r.Use(prom.HTTPMiddleware())
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))

	// health
	ping := func(ctx context.Context) error {
		if pool == nil {
			return nil
		}

		return pool.Ping(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// wire up repositories and services
	usersRepo := postgres.NewUsersRepo(pool, prom)
	contentRepo := postgres.NewContentRepo(pool, prom)
	contentSvc := lifecycle.NewManager(contentRepo)
	listCache := cache.New[[]domain.DailyContent](5 * time.Second)

	tokens := auth.NewManager(cfg.JWTSecret, cfg.TokenTTL)

	authHandler := handlers.NewAuthHandler(usersRepo, tokens, log)
	contentHandler := handlers.NewContentHandler(contentSvc, listCache, log)
	guard := middlewares.NewAuthMiddleware(tokens, usersRepo)

	api := r.Group("/api")

	// public reads
	api.GET("/daily-content", contentHandler.Get)
	api.GET("/daily-content/all", contentHandler.List)
	api.GET("/verse-of-day", handlers.VerseOfDay)

	// credential endpoints, rate limited by client IP
	authRoutes := api.Group("/auth")
	authRoutes.Use(middlewares.RateLimit(limiter, middlewares.KeyByIP))
	authRoutes.Use(middlewares.RequireJSON())
	authRoutes.POST("/signup", authHandler.Signup)
	authRoutes.POST("/login", authHandler.Login)

	// every content mutation goes through the same token-plus-role chain,
	// the legacy create alias included
	mutate := api.Group("")
	mutate.Use(guard.RequireAuth(), guard.RequirePublisher())
	mutate.POST("/daily-content", middlewares.RequireJSON(), contentHandler.Save)
	mutate.POST("/daily-content/create", middlewares.RequireJSON(), contentHandler.Save)
	mutate.DELETE("/daily-content", contentHandler.Delete)
	mutate.DELETE("/daily-content/delete", contentHandler.Delete)

	return r
}
