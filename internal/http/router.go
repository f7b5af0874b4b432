package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(auth.SecurityHeadersMiddleware())

	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	}

	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", Ping)

	api := router.Group("/api/v1")

	if cfg.AuthService != nil && cfg.AuthService.IsAuthEnabled() {
		tokenController := auth.NewController(cfg.AuthService, cfg.AuthLimiter)
		router.POST(auth.TokenPath, tokenController.IssueToken)
	}

	if cfg.Customers != nil {
		var remover CustomerRemover
		if cfg.Favorites != nil {
			remover = cfg.Favorites
		}
		customersController := NewCustomersController(cfg.Customers, remover)
		api.POST("/customers", customersController.Create)
		api.GET("/customers", customersController.List)
		api.GET("/customers/:customerId", customersController.Get)
		api.PUT("/customers/:customerId", customersController.Update)
		api.DELETE("/customers/:customerId", customersController.Delete)
	}

	if cfg.Favorites != nil && cfg.Customers != nil {
		favourites := NewFavouritesController(cfg.Favorites, cfg.Customers, cfg.BulkSubmitter, cfg.Auditor)
		group := api.Group("/customers/:customerId/favorites")
		if cfg.BulkSubmitter != nil {
			group.POST("/bulk-add", favourites.BulkAdd)
		}
		group.GET("", favourites.List)
		group.GET("/summary", favourites.Summary)
		group.GET("/:isbn", favourites.Get)
		group.POST("/:isbn", favourites.Add)
		group.DELETE("/:isbn", favourites.Remove)
	}

	if cfg.TaskStatus != nil {
		tasksController := NewTasksController(cfg.TaskStatus)
		api.GET("/tasks/:id", tasksController.GetTaskStatus)
	}

	return router
}
