package http

import (
	"github.com/mrlokans/bookshelf/internal/audit"
	"github.com/mrlokans/bookshelf/internal/auth"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router. Optional dependencies left nil disable
// the routes that need them.
type RouterConfig struct {
	// Core dependencies
	Database  HealthChecker
	Customers CustomerService
	Favorites FavoriteService

	// Bulk processing (optional)
	BulkSubmitter BulkSubmitter
	TaskStatus    TaskStatusReader
	Auditor       *audit.Auditor

	// Authentication
	AuthService    *auth.Service
	AuthMiddleware *auth.Middleware
	AuthLimiter    *auth.RateLimiter

	// Application info
	Version string
}
