package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/audit"
	"github.com/mrlokans/bookshelf/internal/auth"
	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/customers"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/books"
	dbcustomers "github.com/mrlokans/bookshelf/internal/database/customers"
	dbfavourites "github.com/mrlokans/bookshelf/internal/database/favourites"
	"github.com/mrlokans/bookshelf/internal/database/tokens"
	"github.com/mrlokans/bookshelf/internal/favourites"
	http_controllers "github.com/mrlokans/bookshelf/internal/http"
	"github.com/mrlokans/bookshelf/internal/metadata"
	"github.com/mrlokans/bookshelf/internal/scheduler"
	"github.com/mrlokans/bookshelf/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT or SIGTERM, then drains it.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
	}
	slog.Info("shutting down server", "timeout", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	// Stop background work after the listener so no new batches arrive.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	slog.Info("server exiting")
	return nil
}

// NewMetadataClient builds the external catalog client from configuration.
func NewMetadataClient(cfg config.Catalog) *metadata.Client {
	return metadata.NewClient(metadata.ClientConfig{
		BaseURL:       cfg.BaseURL,
		Timeout:       cfg.HTTPTimeout,
		RatePerSecond: cfg.RatePerSecond,
		Retry: metadata.RetryPolicy{
			MaxAttempts: cfg.MaxAttempts,
			Backoff:     cfg.RetryBackoff,
		},
		Cache: metadata.NewMemoryCache(metadata.CacheOptions{
			TTL:        cfg.CacheTTL,
			MaxEntries: cfg.CacheMaxEntries,
		}),
	})
}

func Run(cfg *config.Config, version string) error {
	slog.Info("starting bookshelf", "version", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	metadataClient := NewMetadataClient(cfg.Catalog)
	customerService := customers.NewService(dbcustomers.NewRepository(db.DB))
	store := catalog.NewStore(books.NewRepository(db.DB), metadataClient)
	manager := favourites.NewManager(customerService, store, dbfavourites.NewRepository(db.DB))

	authService, err := auth.NewService(tokens.NewRepository(db.DB), cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize auth: %w", err)
	}
	authLimiter := auth.NewRateLimiter(auth.DefaultRateLimitConfig())
	if authService.IsAuthEnabled() {
		slog.Info("client authentication enabled", "client_id", cfg.Auth.ClientID)
	} else {
		slog.Warn("authentication disabled, all API routes are public")
	}

	var auditor *audit.Auditor
	if cfg.Audit.Dir != "" {
		auditor = audit.NewAuditor(cfg.Audit.Dir)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	routerCfg := http_controllers.RouterConfig{
		Database:       db,
		Customers:      customerService,
		Favorites:      manager,
		Auditor:        auditor,
		AuthService:    authService,
		AuthMiddleware: auth.NewMiddleware(authService, cfg.Auth),
		AuthLimiter:    authLimiter,
		Version:        version,
	}

	var taskClient *tasks.Client
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		})
		if err != nil {
			return fmt.Errorf("failed to create task client: %w", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				slog.Error("failed to close task client", "error", err)
			}
		}()

		taskClient.Register(tasks.NewBulkAddQueue(manager))
		go taskClient.Start(ctx)

		routerCfg.BulkSubmitter = taskClient
		routerCfg.TaskStatus = taskClient
	} else {
		slog.Warn("task queue disabled, bulk-add endpoint is unavailable")
	}

	jobs := scheduler.New()
	for _, job := range []scheduler.Job{
		scheduler.CachePruneJob(metadataClient.Cache(), cfg.Catalog.CachePruneSchedule),
		scheduler.TokenCleanupJob(authService, cfg.Auth.TokenCleanupSchedule),
		scheduler.AttemptCleanupJob(authLimiter, "*/5 * * * *"),
	} {
		if err := jobs.Add(job); err != nil {
			return err
		}
	}
	jobs.Start(ctx)

	router := http_controllers.NewRouter(routerCfg)

	return Serve(router, cfg, func(shutdownCtx context.Context) {
		jobs.Stop()
		if taskClient != nil {
			if !taskClient.Stop(shutdownCtx) {
				slog.Warn("task workers did not finish before shutdown timeout")
			}
		}
	})
}
