package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UUID      uuid.UUID `json:"uuid" gorm:"type:uuid;uniqueIndex;not null"`
	Username  string    `json:"username" gorm:"type:varchar(191);uniqueIndex;not null"`
	Email     string    `json:"email" gorm:"type:varchar(191);uniqueIndex;not null"`
	NameFirst string    `json:"name_first" gorm:"type:varchar(191)"`
	NameLast  string    `json:"name_last" gorm:"type:varchar(191)"`
	RootAdmin bool      `json:"root_admin" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Subuser grants a non-owner access to one server.
type Subuser struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	UserID      uint           `json:"user_id" gorm:"not null;uniqueIndex:idx_subuser_server_user"`
	ServerID    uint           `json:"server_id" gorm:"not null;uniqueIndex:idx_subuser_server_user"`
	Permissions datatypes.JSON `json:"permissions" gorm:"type:jsonb"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
