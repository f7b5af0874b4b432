package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/entities"
)

var (
	ErrInvalidCredentials = errors.New("invalid client credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrNotConfigured      = errors.New("client credentials are not configured")
)

// TokenStore is satisfied by database/tokens.Repository.
type TokenStore interface {
	Create(token *entities.APIToken) error
	FindByHash(hash string) (*entities.APIToken, error)
	DeleteExpired(now time.Time) (int64, error)
}

// IssuedToken is returned to the client exactly once.
type IssuedToken struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Service struct {
	store      TokenStore
	config     config.Auth
	secretHash string
	now        func() time.Time
}

// NewService hashes the configured client secret once so that plaintext
// secrets are never compared directly.
func NewService(store TokenStore, cfg config.Auth) (*Service, error) {
	s := &Service{store: store, config: cfg, now: time.Now}
	if cfg.Mode != config.AuthModeClient {
		return s, nil
	}
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, ErrNotConfigured
	}

	hash, err := HashSecret(cfg.ClientSecret, cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash client secret: %w", err)
	}
	s.secretHash = hash
	return s, nil
}

func (s *Service) IsAuthEnabled() bool {
	return s.config.Mode == config.AuthModeClient
}

// IssueToken exchanges valid client credentials for a bearer token.
func (s *Service) IssueToken(clientID, secret string) (*IssuedToken, error) {
	if s.secretHash == "" {
		return nil, ErrNotConfigured
	}
	if subtle.ConstantTimeCompare([]byte(clientID), []byte(s.config.ClientID)) != 1 {
		return nil, ErrInvalidCredentials
	}
	if err := CheckSecret(secret, s.secretHash); err != nil {
		if errors.Is(err, ErrSecretMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("check secret: %w", err)
	}

	plaintext, hash, err := GenerateAPIToken()
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	expiresAt := s.now().Add(s.config.TokenExpiry)
	if err := s.store.Create(&entities.APIToken{
		ClientID:  clientID,
		TokenHash: hash,
		ExpiresAt: expiresAt,
	}); err != nil {
		return nil, fmt.Errorf("store token: %w", err)
	}

	slog.Info("api token issued", "client_id", clientID, "expires_at", expiresAt)
	return &IssuedToken{Token: plaintext, TokenType: "Bearer", ExpiresAt: expiresAt}, nil
}

// ValidateToken resolves a bearer token to its stored record.
func (s *Service) ValidateToken(token string) (*entities.APIToken, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	record, err := s.store.FindByHash(HashToken(token))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("find token: %w", err)
	}
	if record.Expired(s.now()) {
		return nil, ErrTokenExpired
	}
	return record, nil
}

// CleanupExpired deletes tokens past their expiry.
func (s *Service) CleanupExpired() (int64, error) {
	return s.store.DeleteExpired(s.now())
}
