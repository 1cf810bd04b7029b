package service

import (
	"github.com/tnqbao/gau-game-panel/config"
	"github.com/tnqbao/gau-game-panel/infra"
	"github.com/tnqbao/gau-game-panel/repository"
	"go.opentelemetry.io/otel"
)

type Service struct {
	Access *AccessService
	Keys   *KeyService
	Status *StatusService
	Daemon *infra.DaemonClient
}

func InitService(cfg *config.Config, infraClient *infra.Infra, repo *repository.Repository) *Service {
	access := NewAccessService(repo.UserRepo, repo.SubuserRepo)

	keys := NewKeyService(
		repo.ServerRepo,
		repo.NodeRepo,
		access,
		infraClient.Redis,
		infraClient.Logger,
		cfg.EnvConfig.Daemon.KeyTTL,
		cfg.EnvConfig.DomainName,
	)

	daemon := infra.InitDaemonClient(cfg.EnvConfig, repo.NodeRepo)

	status, err := NewStatusService(access, keys, daemon, infraClient.Logger, otel.Meter(cfg.EnvConfig.Grafana.ServiceName))
	if err != nil {
		panic("Failed to initialize Status service: " + err.Error())
	}

	return &Service{
		Access: access,
		Keys:   keys,
		Status: status,
		Daemon: daemon,
	}
}
