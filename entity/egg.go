package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Nest struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UUID        uuid.UUID `json:"uuid" gorm:"type:uuid;uniqueIndex;not null"`
	Author      string    `json:"author" gorm:"type:varchar(191);not null"`
	Name        string    `json:"name" gorm:"type:varchar(191);not null"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Egg describes how a server type is installed and started.
type Egg struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	UUID          uuid.UUID      `json:"uuid" gorm:"type:uuid;uniqueIndex;not null"`
	NestID        uint           `json:"nest_id" gorm:"not null;index"`
	Author        string         `json:"author" gorm:"type:varchar(191);not null"`
	Name          string         `json:"name" gorm:"type:varchar(191);not null"`
	Description   string         `json:"description" gorm:"type:text"`
	DockerImage   string         `json:"docker_image" gorm:"type:varchar(191);not null"`
	ConfigFiles   datatypes.JSON `json:"config_files" gorm:"type:jsonb"`
	ConfigStartup datatypes.JSON `json:"config_startup" gorm:"type:jsonb"`
	ConfigStop    string         `json:"config_stop" gorm:"type:varchar(191)"`
	Startup       string         `json:"startup" gorm:"type:text"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

type Pack struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	EggID       uint      `json:"egg_id" gorm:"not null;index"`
	UUID        uuid.UUID `json:"uuid" gorm:"type:uuid;uniqueIndex;not null"`
	Name        string    `json:"name" gorm:"type:varchar(191);not null"`
	Version     string    `json:"version" gorm:"type:varchar(191);not null"`
	Description string    `json:"description" gorm:"type:text"`
	Selectable  bool      `json:"selectable" gorm:"not null;default:true"`
	Visible     bool      `json:"visible" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
