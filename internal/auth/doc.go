// Package auth provides client-credentials authentication for the API.
//
// It supports two modes:
//   - "none": No authentication required (default)
//   - "client": API clients exchange a client id and secret for a bearer token
//
// # Configuration
//
//	AUTH_MODE=client
//	AUTH_CLIENT_ID=reporting-service
//	AUTH_CLIENT_SECRET=<secret>        # Hashed with bcrypt at startup
//	AUTH_TOKEN_EXPIRY=24h              # Lifetime of issued tokens
//	AUTH_BCRYPT_COST=12                # bcrypt cost factor
//
// # Usage
//
//	authService, err := auth.NewService(tokens.NewRepository(db), cfg.Auth)
//	authMiddleware := auth.NewMiddleware(authService, cfg.Auth)
//	router.Use(authMiddleware.Handler())
//	router.POST("/api/v1/auth/token", auth.NewController(authService, limiter).IssueToken)
//
// Only a SHA-256 hash of each issued token is persisted.
package auth
