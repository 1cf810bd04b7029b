package service

import (
	"context"
	"encoding/json"

	"github.com/tnqbao/gau-game-panel/entity"
	"github.com/tnqbao/gau-game-panel/infra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	outcomeNotInstalled = "not_installed"
	outcomeSuspended    = "suspended"
	outcomeLive         = "live"
	outcomeError        = "error"
)

type KeyProvisioner interface {
	ProvisionForServer(ctx context.Context, server *entity.Server, userID uint) (*entity.DaemonCredential, error)
}

type DetailsFetcher interface {
	FetchDetails(ctx context.Context, req infra.DetailsRequest) (json.RawMessage, error)
}

// StatusService works out what status to show for a server. Local state wins
// over the daemon: a server that is not installed or is suspended never
// causes a credential to be minted or the daemon to be contacted.
type StatusService struct {
	access      Authorizer
	keys        KeyProvisioner
	daemon      DetailsFetcher
	logger      *infra.LoggerClient
	resolutions metric.Int64Counter
}

func NewStatusService(access Authorizer, keys KeyProvisioner, daemon DetailsFetcher, logger *infra.LoggerClient, meter metric.Meter) (*StatusService, error) {
	resolutions, err := meter.Int64Counter(
		"panel.server_status.resolutions",
		metric.WithDescription("Server status resolutions by outcome"),
	)
	if err != nil {
		return nil, err
	}

	return &StatusService{
		access:      access,
		keys:        keys,
		daemon:      daemon,
		logger:      logger,
		resolutions: resolutions,
	}, nil
}

func (s *StatusService) Resolve(ctx context.Context, server *entity.Server, userID uint) (*entity.StatusResponse, error) {
	if err := s.access.Authorize(ctx, server, userID); err != nil {
		s.record(ctx, outcomeError)
		return nil, err
	}

	if !server.Installed.IsInstalled() {
		s.record(ctx, outcomeNotInstalled)
		return entity.NotInstalledStatus(), nil
	}

	if server.Suspended {
		s.record(ctx, outcomeSuspended)
		return entity.SuspendedStatus(), nil
	}

	credential, err := s.keys.ProvisionForServer(ctx, server, userID)
	if err != nil {
		s.record(ctx, outcomeError)
		return nil, err
	}

	details, err := s.daemon.FetchDetails(ctx, infra.DetailsRequest{
		NodeID:     server.NodeID,
		ServerUUID: server.UUID,
		Credential: credential.Token,
	})
	if err != nil {
		s.logger.ErrorWithContextf(ctx, err, "[ServerStatus] Daemon details failed for server %s on node %d", server.UUIDShort, server.NodeID)
		s.record(ctx, outcomeError)
		return nil, err
	}

	s.record(ctx, outcomeLive)
	return entity.LiveStatus(details), nil
}

func (s *StatusService) record(ctx context.Context, outcome string) {
	s.resolutions.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
