package entities

import "time"

// APIToken is an issued bearer token. Only the SHA-256 hash of the token is
// stored; the plaintext is returned to the client once at issuance.
type APIToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ClientID  string    `gorm:"size:100;index;not null" json:"client_id"`
	TokenHash string    `gorm:"uniqueIndex;size:64;not null" json:"-"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (t *APIToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}
