package entity

import (
	"time"

	"github.com/google/uuid"
)

// DaemonKey is the stored form of a daemon access key for one (server, user)
// pair. Live status checks use the short-lived DaemonCredential instead.
type DaemonKey struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ServerID  uint      `json:"server_id" gorm:"not null;uniqueIndex:idx_daemon_key_server_user"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_daemon_key_server_user"`
	Secret    string    `json:"-" gorm:"type:text;not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DaemonCredential is a minted access token scoped to one server and user.
type DaemonCredential struct {
	Token      string    `json:"token"`
	ServerID   uint      `json:"server_id"`
	ServerUUID uuid.UUID `json:"server_uuid"`
	UserID     uint      `json:"user_id"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// ValidFor reports whether the credential stays usable for at least d.
func (c *DaemonCredential) ValidFor(now time.Time, d time.Duration) bool {
	return c != nil && c.Token != "" && c.ExpiresAt.After(now.Add(d))
}
