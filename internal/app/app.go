// Package app wires configuration, storage and the domain packages into one
// gin router plus the background services that cmd/api supervises.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"newznepal/internal/config"
	"newznepal/internal/domain/ad"
	"newznepal/internal/domain/auth"
	"newznepal/internal/domain/cleanup"
	"newznepal/internal/domain/feed"
	"newznepal/internal/domain/live"
	"newznepal/internal/domain/localtime"
	"newznepal/internal/domain/newsletter"
	"newznepal/internal/domain/post"
	"newznepal/internal/domain/upload"
	"newznepal/internal/middleware"
	"newznepal/internal/pkg/jwt"
	"newznepal/internal/pkg/logger"
	"newznepal/internal/pkg/mailer"
	"newznepal/internal/pkg/storage"
	"newznepal/internal/pkg/tasks"
)

// Deps lets callers replace the external edges. Nil fields are built from
// the configuration.
type Deps struct {
	Mailer mailer.Mailer
	Store  storage.ObjectStore
	Redis  *redis.Client
}

type App struct {
	cfg    *config.AppConfig
	db     *gorm.DB
	redis  *redis.Client
	router *gin.Engine

	Auth       *auth.Service
	Posts      *post.Service
	Ads        *ad.Service
	Newsletter *newsletter.Service
	Cleanup    *cleanup.Service
	Tasks      *tasks.Queue
	Hub        *live.Hub
	Scheduler  *cleanup.Scheduler
}

func New(cfg *config.AppConfig, db *gorm.DB, deps Deps) (*App, error) {
	a := &App{cfg: cfg, db: db}

	store := deps.Store
	if store == nil {
		var err error
		if store, err = NewStore(context.Background(), cfg.Storage); err != nil {
			return nil, err
		}
	}

	a.redis = deps.Redis
	if a.redis == nil && cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		a.redis = redis.NewClient(opts)
	}

	m := deps.Mailer
	if m == nil {
		m = mailer.New(cfg.SMTP, !cfg.IsProduction())
	}

	a.Tasks = tasks.New(tasks.Config{
		Workers:   cfg.TaskWorkers,
		QueueSize: cfg.TaskQueueSize,
		Timeout:   cfg.TaskTimeout,
	})
	a.Hub = live.NewHub()

	postRepo := post.NewRepository(db)
	a.Auth = auth.NewService(auth.NewRepository(db), cfg.SessionTTL)
	a.Cleanup = cleanup.NewService(postRepo, store, cfg.RetentionDays)
	a.Scheduler = cleanup.NewScheduler(a.Cleanup, a.Auth, cfg.CleanupInterval)

	a.Newsletter = newsletter.NewService(
		newsletter.NewRepository(db),
		postReader{postRepo},
		jwt.New(cfg.Newsletter.UnsubscribeSecret, newsletter.UnsubscribeTTL),
		cfg.SiteURL,
		newsletter.DispatchConfig{
			Mailer:     m,
			BatchSize:  cfg.Newsletter.BatchSize,
			BatchDelay: cfg.Newsletter.BatchDelay,
		},
	)
	a.Posts = post.NewService(postRepo, post.Options{
		Tasks:              a.Tasks,
		Notifier:           a.Newsletter,
		Sweeper:            a.Cleanup,
		Live:               a.Hub,
		RetentionDays:      cfg.RetentionDays,
		CleanupProbability: cfg.CleanupProbability,
	})
	a.Ads = ad.NewService(ad.NewRepository(db))

	a.router = a.buildRouter(store)
	return a, nil
}

func (a *App) Handler() http.Handler { return a.router }

// postReader breaks the post <-> newsletter constructor cycle.
type postReader struct {
	repo post.Repository
}

func (r postReader) Get(ctx context.Context, id string) (*post.Post, error) {
	return r.repo.GetByID(ctx, id)
}

func (a *App) buildRouter(store storage.ObjectStore) *gin.Engine {
	cfg := a.cfg
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.ErrorLogger(),
		middleware.RequestLogger(),
		middleware.Metrics(),
		middleware.CORS(cfg.SiteURL),
	)

	r.GET("/health", a.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if local, ok := store.(*storage.LocalStore); ok {
		r.Static(cfg.Storage.BaseURL, local.Dir())
	}

	requireAdmin := middleware.RequireAdmin(a.Auth)
	limit := middleware.RateLimit(a.redis, cfg.RateLimitPerMinute, time.Minute)

	feed.NewHandler(feed.NewService(post.NewRepository(a.db), cfg.SiteURL)).RegisterRoutes(r)

	api := r.Group("/api")
	auth.NewHandler(a.Auth, cfg.CookieSecure).RegisterRoutes(api)
	post.NewHandler(a.Posts).RegisterRoutes(api, requireAdmin)
	ad.NewHandler(a.Ads, middleware.IsAdmin(a.Auth)).RegisterRoutes(api, requireAdmin, limit)
	newsletter.NewHandler(a.Newsletter).RegisterRoutes(api, requireAdmin, limit)
	upload.NewHandler(upload.NewService(store)).RegisterRoutes(api, requireAdmin)
	cleanup.NewHandler(a.Cleanup).RegisterRoutes(api, requireAdmin,
		middleware.BearerSecret("cleanup", cfg.CleanupSecret))
	live.NewHandler(a.Hub, middleware.OriginAllowed(cfg.SiteURL)).RegisterRoutes(api)
	localtime.NewHandler().RegisterRoutes(api)

	return r
}

func (a *App) health(c *gin.Context) {
	status := http.StatusOK
	db := "ok"
	if sqlDB, err := a.db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		status = http.StatusServiceUnavailable
		db = "unreachable"
	}
	c.JSON(status, gin.H{
		"status":       http.StatusText(status),
		"database":     db,
		"tasks":        a.Tasks.Stats(),
		"live_clients": a.Hub.Clients(),
	})
}

// Close releases connections opened by New.
func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			logger.Warn().Err(err).Msg("closing redis")
		}
	}
	if sqlDB, err := a.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Warn().Err(err).Msg("closing database")
		}
	}
}
