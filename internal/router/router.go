package router

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"employee-directory/internal/apperr"
	"employee-directory/internal/handlers"
	"employee-directory/internal/metrics"
	"employee-directory/internal/middleware"
	"employee-directory/internal/service"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Store       Pinger
	Auth        *service.AuthService
	Employees   *service.EmployeeService
	AuthLimiter middleware.Limiter
	Logger      *slog.Logger
	CORSOrigins []string
}

func Setup(r *gin.Engine, d Deps) {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	r.Use(apperr.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(metrics.Middleware())
	r.Use(middleware.CORS(d.CORSOrigins))
	r.Use(apperr.Handler())

	ah := handlers.NewAuthHandler(d.Auth)
	eh := handlers.NewEmployeeHandler(d.Employees)
	am := middleware.NewAuthMiddleware(d.Auth)

	// health (also verifies store connectivity)
	r.GET("/health", func(c *gin.Context) {
		if err := d.Store.Ping(c.Request.Context()); err != nil {
			logger.Error("health check failed", "err", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db_error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", middleware.RateLimit(d.AuthLimiter), ah.Register)
	auth.POST("/login", middleware.RateLimit(d.AuthLimiter), ah.Login)
	auth.GET("/me", am.Authenticate(), ah.Me)

	employees := api.Group("/employees", am.Authenticate())
	employees.GET("", eh.ListEmployees)
	employees.POST("", eh.CreateEmployee)
	employees.GET("/:id", eh.GetEmployee)
	employees.PUT("/:id", eh.UpdateEmployee)
	employees.DELETE("/:id", eh.DeleteEmployee)
}
