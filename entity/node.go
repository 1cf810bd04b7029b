package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Location struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Short     string    `json:"short" gorm:"type:varchar(191);uniqueIndex;not null"`
	Long      string    `json:"long" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Node is a host running one daemon.
type Node struct {
	ID                 uint      `json:"id" gorm:"primaryKey"`
	UUID               uuid.UUID `json:"uuid" gorm:"type:uuid;uniqueIndex;not null"`
	Public             bool      `json:"public" gorm:"not null;default:true"`
	Name               string    `json:"name" gorm:"type:varchar(191);not null"`
	Description        string    `json:"description" gorm:"type:text"`
	LocationID         uint      `json:"location_id" gorm:"not null;index"`
	FQDN               string    `json:"fqdn" gorm:"column:fqdn;type:varchar(191);not null"`
	Scheme             string    `json:"scheme" gorm:"type:varchar(8);not null;default:'https'"`
	BehindProxy        bool      `json:"behind_proxy" gorm:"not null;default:false"`
	Memory             int64     `json:"memory" gorm:"not null"`
	MemoryOverallocate int64     `json:"memory_overallocate" gorm:"not null;default:0"`
	Disk               int64     `json:"disk" gorm:"not null"`
	DiskOverallocate   int64     `json:"disk_overallocate" gorm:"not null;default:0"`
	DaemonListen       int       `json:"daemon_listen" gorm:"not null;default:8080"`
	DaemonSFTP         int       `json:"daemon_sftp" gorm:"column:daemon_sftp;not null;default:2022"`
	DaemonBase         string    `json:"daemon_base" gorm:"type:varchar(191)"`
	DaemonSecret       string    `json:"-" gorm:"type:text;not null"`
	CACertificate      string    `json:"-" gorm:"column:ca_certificate;type:text"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	Location *Location `json:"location,omitempty" gorm:"foreignKey:LocationID"`
}

// DaemonBaseURL is the address the panel uses to reach this node's daemon.
func (n *Node) DaemonBaseURL() string {
	scheme := n.Scheme
	if scheme == "" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, n.FQDN, n.DaemonListen)
}

type Allocation struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	NodeID    uint      `json:"node_id" gorm:"not null;uniqueIndex:idx_allocation_node_ip_port"`
	IP        string    `json:"ip" gorm:"type:varchar(191);not null;uniqueIndex:idx_allocation_node_ip_port"`
	IPAlias   string    `json:"ip_alias" gorm:"type:text"`
	Port      int       `json:"port" gorm:"not null;uniqueIndex:idx_allocation_node_ip_port"`
	ServerID  *uint     `json:"server_id,omitempty" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
