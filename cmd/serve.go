package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Shivanand-hulikatti/activity-signup/internal/client"
	"github.com/Shivanand-hulikatti/activity-signup/internal/config"
	"github.com/Shivanand-hulikatti/activity-signup/internal/database"
	"github.com/Shivanand-hulikatti/activity-signup/internal/handler"
	"github.com/Shivanand-hulikatti/activity-signup/internal/logging"
	"github.com/Shivanand-hulikatti/activity-signup/internal/metrics"
	"github.com/Shivanand-hulikatti/activity-signup/internal/repository"
	"github.com/Shivanand-hulikatti/activity-signup/internal/service"
	"github.com/Shivanand-hulikatti/activity-signup/internal/view"
	"github.com/Shivanand-hulikatti/activity-signup/internal/web"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type mode int

const (
	modeAPI mode = 1 << iota
	modeWeb
)

func run(ctx context.Context, m mode) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	r, cleanup, err := newRouter(ctx, cfg, m, log)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", "http://localhost:"+cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("server stopped")
	return nil
}

// newRouter wires the halves of the system selected by m. The returned
// func releases store connections.
func newRouter(ctx context.Context, cfg *config.Config, m mode, log *zap.Logger) (chi.Router, func(), error) {
	cleanup := func() {}

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(handler.Logger(log))
	if cfg.EnableMetrics {
		r.Use(handler.Metrics)
	}

	r.Get("/", handler.RedirectToFrontend)
	r.Get("/health", handler.HealthCheck)
	if cfg.EnableMetrics {
		r.Handle("/metrics", metrics.Handler())
	}

	// ── Activity API ─────────────────────────────────────────────────────
	if m&modeAPI != 0 {
		repo, closeRepo, err := openRepository(ctx, cfg, log)
		if err != nil {
			return nil, nil, err
		}
		cleanup = closeRepo

		if cfg.Seed {
			if err := repo.Seed(ctx, repository.DefaultActivities()); err != nil {
				closeRepo()
				return nil, nil, fmt.Errorf("seed activities: %w", err)
			}
		}

		activities := handler.NewActivityHandler(service.NewActivityService(repo), log)
		r.Group(func(r chi.Router) {
			r.Use(handler.CORS(cfg.CORSOrigins))
			r.Mount("/activities", activities.Routes())
		})
	}

	// ── Sign-up page ─────────────────────────────────────────────────────
	if m&modeWeb != 0 {
		apiURL := cfg.APIURL
		if apiURL == "" {
			if m&modeAPI == 0 {
				cleanup()
				return nil, nil, errors.New("api_url is required when running only the sign-up page")
			}
			apiURL = cfg.SelfURL()
		}

		// Page actions wait for the API however long it takes.
		api := client.New(apiURL, nil)
		sessions := web.NewSessions(nil, cfg.SessionTTL, cfg.MaxSessions, func() *view.Controller {
			return view.NewController(api, view.NewNotice(nil, cfg.NoticeDuration), log)
		})
		r.Mount(web.Base, web.NewFrontend(sessions, log).Routes())
		log.Info("sign-up page enabled", zap.String("api_url", apiURL))
	}

	return r, cleanup, nil
}

// openRepository connects the configured store. The returned func releases
// its connections.
func openRepository(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.ActivityRepository, func(), error) {
	switch cfg.Store {
	case config.StorePostgres:
		pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
		if err != nil {
			return nil, nil, fmt.Errorf("database: %w", err)
		}
		repo := repository.NewPostgresRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		log.Info("connected to postgres")
		return repo, pool.Close, nil

	case config.StoreRedis:
		rdb, err := database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("redis: %w", err)
		}
		log.Info("connected to redis", zap.String("addr", rdb.Options().Addr))
		return repository.NewRedisRepository(rdb), func() { _ = rdb.Close() }, nil

	default:
		return repository.NewMemoryRepository(), func() {}, nil
	}
}
