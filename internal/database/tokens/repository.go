// Package tokens provides database operations for issued API tokens.
//
// This package implements the TokenStore interface defined in
// internal/auth/service.go.
package tokens

import (
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(token *entities.APIToken) error {
	return r.db.Create(token).Error
}

// FindByHash returns gorm.ErrRecordNotFound for unknown hashes.
func (r *Repository) FindByHash(hash string) (*entities.APIToken, error) {
	var token entities.APIToken
	err := r.db.Where("token_hash = ?", hash).First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// DeleteExpired removes tokens whose expiry is at or before now.
func (r *Repository) DeleteExpired(now time.Time) (int64, error) {
	result := r.db.Where("expires_at <= ?", now).Delete(&entities.APIToken{})
	return result.RowsAffected, result.Error
}
