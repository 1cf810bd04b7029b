package controller

import (
	"context"

	"github.com/google/uuid"
	"github.com/tnqbao/gau-game-panel/config"
	"github.com/tnqbao/gau-game-panel/entity"
	"github.com/tnqbao/gau-game-panel/infra"
	"github.com/tnqbao/gau-game-panel/repository"
	"github.com/tnqbao/gau-game-panel/service"
)

type ServerStore interface {
	FindByUUIDShort(ctx context.Context, uuidShort string) (*entity.Server, error)
	FindByUUID(ctx context.Context, id uuid.UUID) (*entity.Server, error)
	SearchAccessible(ctx context.Context, userID uint, rootAdmin bool, query string) ([]entity.Server, error)
	SetSuspended(ctx context.Context, id uint, suspended bool) error
	Delete(ctx context.Context, id uint) error
	Restore(ctx context.Context, id uint) error
}

type NodeStore interface {
	GetByID(ctx context.Context, id uint) (*entity.Node, error)
}

type AccessChecker interface {
	IsRootAdmin(ctx context.Context, userID uint) (bool, error)
}

type StatusResolver interface {
	Resolve(ctx context.Context, server *entity.Server, userID uint) (*entity.StatusResponse, error)
}

type ServerEvents interface {
	PublishInstallCompleted(ctx context.Context, serverID uint, successful bool) error
	PublishSuspensionChanged(ctx context.Context, serverID uint, suspended bool) error
}

type Controller struct {
	Config  *config.Config
	Logger  *infra.LoggerClient
	Servers ServerStore
	Nodes   NodeStore
	Access  AccessChecker
	Status  StatusResolver
	Events  ServerEvents
}

func NewController(config *config.Config, infra *infra.Infra, repo *repository.Repository, svc *service.Service) *Controller {
	if repo == nil {
		panic("Failed to initialize Repository")
	}
	return &Controller{
		Config:  config,
		Logger:  infra.Logger,
		Servers: repo.ServerRepo,
		Nodes:   repo.NodeRepo,
		Access:  svc.Access,
		Status:  svc.Status,
		Events:  infra.Produce.ServerService,
	}
}

// findServer accepts either the full uuid or the 8 character short form.
func (ctrl *Controller) findServer(ctx context.Context, identifier string) (*entity.Server, error) {
	if id, err := uuid.Parse(identifier); err == nil {
		return ctrl.Servers.FindByUUID(ctx, id)
	}
	return ctrl.Servers.FindByUUIDShort(ctx, identifier)
}
