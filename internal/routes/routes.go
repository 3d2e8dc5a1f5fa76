package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/mood-journal/internal/audit"
	"github.com/BruksfildServices01/mood-journal/internal/config"
	domain "github.com/BruksfildServices01/mood-journal/internal/domain/journal"
	"github.com/BruksfildServices01/mood-journal/internal/handlers"
	infraRepo "github.com/BruksfildServices01/mood-journal/internal/infra/repository"
	"github.com/BruksfildServices01/mood-journal/internal/middleware"
	"github.com/BruksfildServices01/mood-journal/internal/timezone"
	ucJournal "github.com/BruksfildServices01/mood-journal/internal/usecase/journal"
	"github.com/BruksfildServices01/mood-journal/internal/validators"
)

type Deps struct {
	DB     *gorm.DB
	Config *config.Config
	Log    *zap.Logger
	Audit  *audit.Dispatcher
	// Redis is optional; without it requests are not rate limited.
	Redis *redis.Client
}

func NewEngine(d Deps) *gin.Engine {
	if !d.Config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	RegisterRoutes(r, d)
	return r
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware(d.Log))
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middleware.RateLimitMiddleware(d.Redis, cfg.RateLimitPerMinute, time.Minute, d.Log))

	validators.RegisterJSONTagNames()

	// ======================================================
	// INFRA
	// ======================================================
	logRepo := infraRepo.NewLogGormRepository(d.DB)
	userRepo := infraRepo.NewUserGormRepository(d.DB)
	policy := domain.Policy{OwnerOnly: cfg.OwnerOnly()}

	// ======================================================
	// USE CASES
	// ======================================================
	createLogUC := ucJournal.NewCreateLog(logRepo, policy, d.Audit)
	listLogsUC := ucJournal.NewListLogs(logRepo, policy)
	getLogUC := ucJournal.NewGetLog(logRepo, policy)
	updateLogUC := ucJournal.NewUpdateLog(logRepo, policy, d.Audit)
	deleteLogUC := ucJournal.NewDeleteLog(logRepo, policy, d.Audit)

	// ======================================================
	// HANDLERS
	// ======================================================
	logHandler := handlers.NewLogHandler(
		createLogUC,
		listLogsUC,
		getLogUC,
		updateLogUC,
		deleteLogUC,
		timezone.Location(cfg.TimeZone),
	)
	userHandler := handlers.NewUserHandler(userRepo, cfg, d.Log)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB, cfg.OwnerOnly())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(cfg))
	{
		api.POST("/users/", userHandler.Register)
		api.POST("/auth/token/", userHandler.Token)
		api.GET("/users/me/", userHandler.Me)
		api.DELETE("/users/:id/", middleware.RequireActor(), userHandler.Delete)

		logs := api.Group("/logs")
		if cfg.OwnerOnly() {
			logs.Use(middleware.RequireActor())
		}
		{
			logs.GET("/", logHandler.List)
			logs.POST("/", logHandler.Create)
			logs.GET("/:id/", logHandler.Retrieve)
			logs.PUT("/:id/", logHandler.Update)
			logs.PATCH("/:id/", logHandler.Update)
			logs.DELETE("/:id/", logHandler.Delete)
		}

		api.GET("/audit-logs/", auditLogsHandler.List)
	}
}
