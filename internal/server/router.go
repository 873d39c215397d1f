package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"taskdeck/backend/internal/config"
	"taskdeck/backend/internal/handlers"
	"taskdeck/backend/internal/middleware"
	"taskdeck/backend/internal/monitoring"
	"taskdeck/backend/internal/services"
)

// Deps bundles everything the router needs. Constructed in main and
// threaded through explicitly.
type Deps struct {
	Config  *config.Config
	DB      *gorm.DB
	Auth    *services.AuthService
	Tasks   services.TaskService
	Log     *zap.Logger
	Metrics *monitoring.Metrics
	Health  *monitoring.HealthChecker
}

func NewRouter(deps Deps) *gin.Engine {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.Metrics == nil {
		deps.Metrics = monitoring.NewMetrics()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(deps.Log))
	r.Use(deps.Metrics.Middleware())

	corsCfg := cors.DefaultConfig()
	if deps.Config != nil && deps.Config.Server.CORSOrigin != "" {
		corsCfg.AllowOrigins = []string{deps.Config.Server.CORSOrigin}
	} else {
		corsCfg.AllowOrigins = []string{"http://localhost:5173"}
	}
	corsCfg.AllowCredentials = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	authHandler := handlers.NewAuthHandler(deps.DB, deps.Auth, deps.Log)
	taskHandler := handlers.NewTaskHandler(deps.DB, deps.Tasks, deps.Log)

	api := r.Group("/api")
	{
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		tasks := api.Group("/tasks", middleware.RequireAuth(deps.Auth))
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}
	}

	r.GET("/metrics", deps.Metrics.Handler)
	if deps.Health != nil {
		r.GET("/health", deps.Health.Handler)
	}

	return r
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
