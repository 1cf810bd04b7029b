package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InstallState mirrors the tri-state installed column: 0 while the install
// script has not finished, 1 once it succeeded, 2 when it failed.
type InstallState uint8

const (
	InstallPending InstallState = 0
	InstallDone    InstallState = 1
	InstallFailed  InstallState = 2
)

// IsInstalled reports whether the daemon has finished processing the install,
// successfully or not. Only a pending install hides the live daemon state.
func (s InstallState) IsInstalled() bool {
	return s != InstallPending
}

type Server struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	ExternalID   *string        `json:"external_id,omitempty" gorm:"type:varchar(191);uniqueIndex"`
	UUID         uuid.UUID      `json:"uuid" gorm:"type:uuid;uniqueIndex;not null"`
	UUIDShort    string         `json:"uuid_short" gorm:"column:uuid_short;type:char(8);uniqueIndex;not null"`
	NodeID       uint           `json:"node_id" gorm:"not null;index"`
	Name         string         `json:"name" gorm:"type:varchar(191);not null"`
	Description  string         `json:"description" gorm:"type:text"`
	SkipScripts  bool           `json:"skip_scripts" gorm:"not null;default:false"`
	Suspended    bool           `json:"suspended" gorm:"not null;default:false"`
	Installed    InstallState   `json:"installed" gorm:"type:smallint;not null;default:0"`
	OwnerID      uint           `json:"owner_id" gorm:"not null;index"`
	Memory       int64          `json:"memory" gorm:"not null"`
	Swap         int64          `json:"swap" gorm:"not null"`
	Disk         int64          `json:"disk" gorm:"not null"`
	IO           int64          `json:"io" gorm:"column:io;not null"`
	CPU          int64          `json:"cpu" gorm:"not null"`
	OOMDisabled  bool           `json:"oom_disabled" gorm:"column:oom_disabled;not null;default:false"`
	AllocationID uint           `json:"allocation_id" gorm:"not null"`
	NestID       uint           `json:"nest_id" gorm:"not null"`
	EggID        uint           `json:"egg_id" gorm:"not null"`
	PackID       *uint          `json:"pack_id,omitempty"`
	Startup      string         `json:"startup" gorm:"type:text"`
	Image        string         `json:"image" gorm:"type:varchar(191)"`
	SFTPPassword string         `json:"-" gorm:"column:sftp_password;type:text"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	Owner       *User            `json:"user,omitempty" gorm:"foreignKey:OwnerID"`
	Node        *Node            `json:"node,omitempty" gorm:"foreignKey:NodeID"`
	Allocation  *Allocation      `json:"allocation,omitempty" gorm:"foreignKey:AllocationID"`
	Allocations []Allocation     `json:"allocations,omitempty" gorm:"foreignKey:ServerID"`
	Pack        *Pack            `json:"pack,omitempty" gorm:"foreignKey:PackID"`
	Nest        *Nest            `json:"nest,omitempty" gorm:"foreignKey:NestID"`
	Egg         *Egg             `json:"egg,omitempty" gorm:"foreignKey:EggID"`
	Variables   []ServerVariable `json:"variables,omitempty" gorm:"foreignKey:ServerID"`
	Schedules   []Schedule       `json:"schedules,omitempty" gorm:"foreignKey:ServerID"`
	Databases   []Database       `json:"databases,omitempty" gorm:"foreignKey:ServerID"`
	Key         *DaemonKey       `json:"key,omitempty" gorm:"foreignKey:UserID;references:OwnerID"`
	Keys        []DaemonKey      `json:"keys,omitempty" gorm:"foreignKey:ServerID"`
	Subusers    []Subuser        `json:"subusers,omitempty" gorm:"foreignKey:ServerID"`
}

func (Server) TableName() string {
	return "servers"
}
