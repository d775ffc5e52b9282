package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/integrity-rating-api/internal/handler"
	"github.com/noah-isme/integrity-rating-api/internal/middleware"
	"github.com/noah-isme/integrity-rating-api/internal/models"
	"github.com/noah-isme/integrity-rating-api/internal/repository"
	"github.com/noah-isme/integrity-rating-api/internal/service"
	"github.com/noah-isme/integrity-rating-api/pkg/config"
	"github.com/noah-isme/integrity-rating-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/integrity-rating-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/integrity-rating-api/pkg/middleware/requestid"
)

type routeServices struct {
	auth        *service.AuthService
	accounts    middleware.AccountLookup
	users       *service.UserService
	submissions *service.SubmissionService
	categories  *service.CategoryService
	moderation  *service.ModerationService
	audit       *service.AuditService
	dashboard   *service.DashboardService
	metrics     *service.MetricsService
	references  *repository.ReferenceRepository
	limiter     *repository.RateLimitRepository
}

func newRouter(cfg *config.Config, logr *zap.Logger, db handler.Pinger, svc routeServices) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(svc.metrics))

	health := handler.NewHealthHandler(db, svc.metrics.Handler())
	r.GET("/health", health.Health)
	r.GET("/ready", health.Ready)
	r.GET("/metrics", health.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authHandler := handler.NewAuthHandler(svc.auth)
	categoryHandler := handler.NewCategoryHandler(svc.categories)
	dashboardHandler := handler.NewDashboardHandler(svc.dashboard)
	submissionHandler := handler.NewSubmissionHandler(svc.submissions)
	moderationHandler := handler.NewModerationHandler(svc.moderation)
	auditHandler := handler.NewAuditHandler(svc.audit)
	userHandler := handler.NewUserHandler(svc.users)

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/categories/:kind", categoryHandler.List)
	api.GET("/leaderboard/:kind", dashboardHandler.Leaderboard)
	api.GET("/references/:table", handler.NewReferenceHandler(svc.references).List)

	authed := api.Group("", middleware.JWT(svc.auth))
	submit := authed.Group("")
	if cfg.RateLimit.Enabled && svc.limiter != nil {
		submit.Use(middleware.RateLimit(svc.limiter, cfg.RateLimit.Requests, cfg.RateLimit.Window, logr))
	}
	submit.POST("/nominees", submissionHandler.SubmitNominee)
	submit.POST("/institutions", submissionHandler.SubmitInstitution)
	submit.POST("/nominees/:id/ratings", submissionHandler.Rate(models.RatingKindNominee))
	submit.POST("/institutions/:id/ratings", submissionHandler.Rate(models.RatingKindInstitution))
	submit.POST("/nominees/:id/comments", submissionHandler.Comment(models.RatingKindNominee))
	submit.POST("/institutions/:id/comments", submissionHandler.Comment(models.RatingKindInstitution))

	admin := authed.Group("/admin", middleware.ActiveAccount(svc.accounts), middleware.RequireModerator())
	admin.GET("/moderation/submissions", moderationHandler.Submissions)
	admin.POST("/moderation/batch", moderationHandler.Batch)
	admin.POST("/moderation/:type/:id/approve", moderationHandler.Approve)
	admin.POST("/moderation/:type/:id/reject", moderationHandler.Reject)
	admin.POST("/moderation/:type/:id/flag", moderationHandler.Flag)
	admin.PATCH("/moderation/:type/:id/status", moderationHandler.ChangeStatus)
	admin.DELETE("/ratings/:kind/:id", moderationHandler.DeleteRating)
	admin.GET("/audit/logs", auditHandler.List)
	admin.GET("/audit/logs/export", auditHandler.Export)
	if cfg.Dashboard.Enabled {
		admin.GET("/dashboard/stats", dashboardHandler.Stats)
	}

	adminOnly := admin.Group("", middleware.RequireAdmin())
	adminOnly.GET("/users", userHandler.List)
	adminOnly.PATCH("/users/:id/role", userHandler.ChangeRole)
	adminOnly.PATCH("/users/:id/status", userHandler.ChangeStatus)
	adminOnly.POST("/categories/:kind", categoryHandler.Create)
	adminOnly.PUT("/categories/:kind/:id", categoryHandler.Update)

	return r
}
