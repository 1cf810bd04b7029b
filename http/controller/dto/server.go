package dto

import (
	"github.com/google/uuid"
	"github.com/tnqbao/gau-game-panel/entity"
)

type SuspensionRequestDTO struct {
	Suspended *bool `json:"suspended" binding:"required"`
}

type InstallCallbackRequestDTO struct {
	Successful *bool `json:"successful" binding:"required"`
}

type ServerLimitsDTO struct {
	Memory int64 `json:"memory"`
	Swap   int64 `json:"swap"`
	Disk   int64 `json:"disk"`
	IO     int64 `json:"io"`
	CPU    int64 `json:"cpu"`
}

type ServerResponseDTO struct {
	ID            uint            `json:"id"`
	UUID          uuid.UUID       `json:"uuid"`
	UUIDShort     string          `json:"uuid_short"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	NodeID        uint            `json:"node_id"`
	NodeName      string          `json:"node_name,omitempty"`
	OwnerID       uint            `json:"owner_id"`
	OwnerUsername string          `json:"owner_username,omitempty"`
	Suspended     bool            `json:"suspended"`
	Installed     uint8           `json:"installed"`
	Limits        ServerLimitsDTO `json:"limits"`
}

func NewServerResponse(s *entity.Server) ServerResponseDTO {
	res := ServerResponseDTO{
		ID:          s.ID,
		UUID:        s.UUID,
		UUIDShort:   s.UUIDShort,
		Name:        s.Name,
		Description: s.Description,
		NodeID:      s.NodeID,
		OwnerID:     s.OwnerID,
		Suspended:   s.Suspended,
		Installed:   uint8(s.Installed),
		Limits: ServerLimitsDTO{
			Memory: s.Memory,
			Swap:   s.Swap,
			Disk:   s.Disk,
			IO:     s.IO,
			CPU:    s.CPU,
		},
	}
	if s.Node != nil {
		res.NodeName = s.Node.Name
	}
	if s.Owner != nil {
		res.OwnerUsername = s.Owner.Username
	}
	return res
}
