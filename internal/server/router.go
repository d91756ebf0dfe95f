package server

import (
	"fmt"

	"todo-planner/internal/handlers"
	"todo-planner/internal/middleware"
	"todo-planner/internal/monitoring"
	"todo-planner/internal/services"
	"todo-planner/internal/session"
	"todo-planner/internal/web"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Dependencies struct {
	DB          *gorm.DB
	Sessions    *session.Manager
	Planner     handlers.Planner
	Registry    *monitoring.Registry
	RateLimiter *middleware.RateLimiter
	CORSOrigins []string
}

// NewRouter wires middleware, pages and operational endpoints. RateLimiter
// and CORSOrigins are optional.
func NewRouter(deps Dependencies) (*gin.Engine, error) {
	if deps.DB == nil || deps.Sessions == nil || deps.Planner == nil {
		return nil, fmt.Errorf("router needs a database, a session manager and a planner")
	}
	if deps.Registry == nil {
		deps.Registry = monitoring.NewRegistry()
	}

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	router.Use(middleware.RecoveryWithLog())
	router.Use(gin.Logger())
	router.Use(deps.Registry.MetricsMiddleware())
	if cors := middleware.CORS(deps.CORSOrigins); cors != nil {
		router.Use(cors)
	}
	if deps.RateLimiter != nil {
		router.Use(deps.RateLimiter.Middleware())
	}

	router.GET("/health", deps.Registry.HealthHandler())
	router.GET("/metrics", deps.Registry.MetricsHandler())

	authHandler := handlers.NewAuthHandler(deps.DB, services.NewUserService(), deps.Sessions)
	todoHandler := handlers.NewTodoHandler(deps.DB, services.NewTodoService(), deps.Planner, deps.Sessions)

	pages := router.Group("/", middleware.Session(deps.Sessions))
	pages.GET("/", authHandler.Index)
	pages.POST("/login", authHandler.Login)
	pages.GET("/logout", authHandler.Logout)

	protected := pages.Group("/", middleware.RequireSession())
	protected.GET("/dashboard", todoHandler.Dashboard)
	protected.POST("/create_list", todoHandler.CreateList)
	protected.POST("/delete_list/:list_id", todoHandler.DeleteList)
	protected.POST("/delete_task/:task_id", todoHandler.DeleteTask)
	protected.POST("/toggle_task/:task_id", todoHandler.ToggleTask)

	return router, nil
}
