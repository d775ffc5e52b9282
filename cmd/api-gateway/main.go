package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/noah-isme/integrity-rating-api/api/swagger"
	"github.com/noah-isme/integrity-rating-api/internal/repository"
	"github.com/noah-isme/integrity-rating-api/internal/service"
	"github.com/noah-isme/integrity-rating-api/pkg/cache"
	"github.com/noah-isme/integrity-rating-api/pkg/config"
	"github.com/noah-isme/integrity-rating-api/pkg/database"
	"github.com/noah-isme/integrity-rating-api/pkg/export"
	"github.com/noah-isme/integrity-rating-api/pkg/jobs"
	"github.com/noah-isme/integrity-rating-api/pkg/logger"
	"github.com/noah-isme/integrity-rating-api/pkg/notify"
)

// @title Integrity Rating API
// @version 1.0.0
// @description Citizen ratings of public officials and institutions with a moderated review workflow.
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(ctx, cfg.Database, logr)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close()

	if cfg.Migrations.AutoMigrate {
		migrations, err := database.LoadMigrations(cfg.Migrations.Dir)
		if err != nil {
			return err
		}
		if err := database.Migrate(ctx, db, migrations, logr); err != nil {
			return err
		}
	}

	// Redis is optional: without it the dashboard is uncached and submissions are not rate limited.
	var redisClient redis.UniversalClient
	if client, err := cache.NewRedis(ctx, cfg.Redis); err != nil {
		logr.Warn("redis unavailable, continuing without cache and rate limiting", zap.Error(err))
	} else {
		redisClient = client
		defer client.Close()
	}

	metrics := service.NewMetricsService()
	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	adminLogRepo := repository.NewAdminLogRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	referenceRepo := repository.NewReferenceRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	moderationRepo := repository.NewModerationRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)

	cacheSvc := service.NewCacheService(repository.NewCacheRepository(redisClient), metrics, cfg.Dashboard.CacheTTL, logr, redisClient != nil)
	auditSvc := service.NewAuditService(adminLogRepo, logr, export.NewCSVExporter(), export.NewPDFExporter())

	notifier, stopNotifications := startNotifications(ctx, cfg.Notifications, metrics, logr)
	defer stopNotifications()

	services := routeServices{
		auth: service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
			AccessTokenSecret: cfg.JWT.Secret,
			AccessTokenExpiry: cfg.JWT.Expiration,
			Issuer:            cfg.JWT.Issuer,
		}),
		accounts:    userRepo,
		users:       service.NewUserService(userRepo, auditSvc, validate, logr),
		submissions: service.NewSubmissionService(submissionRepo, referenceRepo, categoryRepo, validate, logr),
		categories:  service.NewCategoryService(categoryRepo, referenceRepo, auditSvc, cacheSvc, validate, logr),
		moderation: service.NewModerationService(service.ModerationServiceParams{
			Store:    moderationRepo,
			Audit:    auditSvc,
			Notifier: notifier,
			Cache:    cacheSvc,
			Metrics:  metrics,
			Logger:   logr,
		}),
		audit:      auditSvc,
		dashboard:  service.NewDashboardService(dashboardRepo, moderationRepo, cacheSvc, metrics, cfg.Dashboard.CacheTTL, logr),
		metrics:    metrics,
		references: referenceRepo,
	}
	if redisClient != nil {
		services.limiter = repository.NewRateLimitRepository(redisClient)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           newRouter(cfg, logr, db, services),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
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

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// startNotifications wires the outcome queue to Kafka. When delivery is disabled the
// service only logs, and the returned stop func is a no-op.
func startNotifications(ctx context.Context, cfg config.NotificationConfig, metrics *service.MetricsService, logr *zap.Logger) (*service.NotificationService, func()) {
	if !cfg.Enabled {
		return service.NewNotificationService(nil, logr), func() {}
	}

	publisher := notify.NewKafkaPublisher(cfg)
	worker := service.NewNotificationWorker(publisher, metrics, logr)
	queue := jobs.NewQueue("notifications", worker.Handle, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logr,
		OnDrop:     worker.OnDrop,
	})
	queue.Start(ctx)

	return service.NewNotificationService(queue, logr), func() {
		queue.Stop()
		if err := publisher.Close(); err != nil {
			logr.Warn("close kafka publisher", zap.Error(err))
		}
	}
}
