package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// TokenRequest is the client-credentials exchange body.
type TokenRequest struct {
	ClientID     string `json:"client_id" binding:"required"`
	ClientSecret string `json:"client_secret" binding:"required"`
}

type Controller struct {
	service     *Service
	rateLimiter *RateLimiter
}

func NewController(service *Service, rateLimiter *RateLimiter) *Controller {
	return &Controller{service: service, rateLimiter: rateLimiter}
}

// IssueToken handles POST /api/v1/auth/token.
func (ctrl *Controller) IssueToken(c *gin.Context) {
	if !ctrl.service.IsAuthEnabled() {
		c.JSON(http.StatusNotFound, gin.H{"error": "authentication is disabled", "code": "not_found"})
		return
	}

	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "client_id and client_secret are required", "code": "invalid_request"})
		return
	}

	ip := c.ClientIP()
	if ctrl.rateLimiter != nil {
		if allowed, retryAfter := ctrl.rateLimiter.Allow(ip, req.ClientID); !allowed {
			tooManyAttempts(c, retryAfter)
			return
		}
	}

	issued, err := ctrl.service.IssueToken(req.ClientID, req.ClientSecret)
	if errors.Is(err, ErrInvalidCredentials) {
		if ctrl.rateLimiter != nil && ctrl.rateLimiter.RecordFailure(ip, req.ClientID) {
			slog.Warn("token requests locked out", "ip", ip, "client_id", req.ClientID)
		}
		unauthorized(c, "invalid client credentials")
		return
	}
	if err != nil {
		slog.Error("failed to issue token", "client_id", req.ClientID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token", "code": "internal_error"})
		return
	}

	if ctrl.rateLimiter != nil {
		ctrl.rateLimiter.RecordSuccess(ip, req.ClientID)
	}
	c.JSON(http.StatusOK, issued)
}
