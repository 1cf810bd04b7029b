package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/tnqbao/gau-game-panel/apperror"
	"github.com/tnqbao/gau-game-panel/entity"
	"github.com/tnqbao/gau-game-panel/infra"
)

// KeyRefreshMargin is the minimum remaining lifetime of a cached credential
// before a new one is minted.
const KeyRefreshMargin = 60 * time.Second

type ServerLookup interface {
	GetByID(ctx context.Context, id uint) (*entity.Server, error)
}

type NodeLookup interface {
	GetByID(ctx context.Context, id uint) (*entity.Node, error)
}

type Authorizer interface {
	Authorize(ctx context.Context, server *entity.Server, userID uint) error
}

type CredentialCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) (int, error)
}

// DaemonClaims are the claims of a daemon credential. The daemon verifies
// them with the node's secret.
type DaemonClaims struct {
	ServerUUID string `json:"server_uuid"`
	UserID     uint   `json:"user_id"`
	jwt.RegisteredClaims
}

type KeyService struct {
	servers ServerLookup
	nodes   NodeLookup
	access  Authorizer
	cache   CredentialCache
	logger  *infra.LoggerClient
	ttl     time.Duration
	issuer  string
	now     func() time.Time
}

func NewKeyService(
	servers ServerLookup,
	nodes NodeLookup,
	access Authorizer,
	cache CredentialCache,
	logger *infra.LoggerClient,
	ttl time.Duration,
	issuer string,
) *KeyService {
	return &KeyService{
		servers: servers,
		nodes:   nodes,
		access:  access,
		cache:   cache,
		logger:  logger,
		ttl:     ttl,
		issuer:  issuer,
		now:     time.Now,
	}
}

func DaemonKeyCacheKey(serverID, userID uint) string {
	return fmt.Sprintf("daemon_key:%d:%d", serverID, userID)
}

// Provision returns a credential scoped to exactly one server and user.
// A cached credential is reused while it has more than KeyRefreshMargin left.
func (s *KeyService) Provision(ctx context.Context, serverID, userID uint) (*entity.DaemonCredential, error) {
	server, err := s.servers.GetByID(ctx, serverID)
	if err != nil {
		return nil, err
	}
	return s.ProvisionForServer(ctx, server, userID)
}

// ProvisionForServer is Provision for a server the caller has already loaded.
// Access is still checked; for the owner that needs no query.
func (s *KeyService) ProvisionForServer(ctx context.Context, server *entity.Server, userID uint) (*entity.DaemonCredential, error) {
	if err := s.access.Authorize(ctx, server, userID); err != nil {
		return nil, err
	}

	serverID := server.ID
	cacheKey := DaemonKeyCacheKey(serverID, userID)
	now := s.now()

	if s.cache != nil {
		var cached entity.DaemonCredential
		err := s.cache.Get(ctx, cacheKey, &cached)
		switch {
		case err == nil && cached.ServerID == serverID && cached.UserID == userID && cached.ValidFor(now, KeyRefreshMargin):
			return &cached, nil
		case err != nil && !errors.Is(err, infra.ErrCacheMiss):
			s.logger.WarningWithContextf(ctx, "[DaemonKey] Failed to read cached credential %s: %v", cacheKey, err)
		}
	}

	node, err := s.nodes.GetByID(ctx, server.NodeID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, fmt.Sprintf("failed to resolve node %d", server.NodeID))
	}

	credential, err := s.mint(server, node, userID, now)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to sign daemon credential")
	}

	if s.cache != nil && s.ttl > KeyRefreshMargin {
		if err := s.cache.Set(ctx, cacheKey, credential, s.ttl-KeyRefreshMargin); err != nil {
			s.logger.WarningWithContextf(ctx, "[DaemonKey] Failed to cache credential %s: %v", cacheKey, err)
		}
	}

	s.logger.DebugWithContextf(ctx, "[DaemonKey] Minted credential for server %d user %d", serverID, userID)
	return credential, nil
}

// Revoke drops every cached credential of a server.
func (s *KeyService) Revoke(ctx context.Context, serverID uint) (int, error) {
	if s.cache == nil {
		return 0, nil
	}
	return s.cache.DeleteByPattern(ctx, fmt.Sprintf("daemon_key:%d:*", serverID))
}

func (s *KeyService) mint(server *entity.Server, node *entity.Node, userID uint, now time.Time) (*entity.DaemonCredential, error) {
	if node.DaemonSecret == "" {
		return nil, fmt.Errorf("node %d has no daemon secret", node.ID)
	}

	expiresAt := now.Add(s.ttl)
	claims := DaemonClaims{
		ServerUUID: server.UUID.String(),
		UserID:     userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{node.UUID.String()},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(node.DaemonSecret))
	if err != nil {
		return nil, err
	}

	return &entity.DaemonCredential{
		Token:      token,
		ServerID:   server.ID,
		ServerUUID: server.UUID,
		UserID:     userID,
		ExpiresAt:  expiresAt,
	}, nil
}
