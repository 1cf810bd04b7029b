package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tnqbao/gau-game-panel/apperror"
	"github.com/tnqbao/gau-game-panel/entity"
	"github.com/tnqbao/gau-game-panel/infra"
)

type fakeServers struct {
	servers map[uint]*entity.Server
	calls   int
}

func (f *fakeServers) GetByID(_ context.Context, id uint) (*entity.Server, error) {
	f.calls++
	if s, ok := f.servers[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, apperror.NotFoundf("server %d not found", id)
}

type fakeNodes struct {
	nodes map[uint]*entity.Node
}

func (f *fakeNodes) GetByID(_ context.Context, id uint) (*entity.Node, error) {
	if n, ok := f.nodes[id]; ok {
		return n, nil
	}
	return nil, apperror.NotFoundf("node %d not found", id)
}

type fakeUsers struct {
	users map[uint]*entity.User
	err   error
}

func (f *fakeUsers) GetByID(_ context.Context, id uint) (*entity.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, apperror.NotFoundf("user %d not found", id)
}

type fakeSubusers struct {
	pairs map[[2]uint]bool
}

func (f *fakeSubusers) Exists(_ context.Context, serverID, userID uint) (bool, error) {
	return f.pairs[[2]uint{serverID, userID}], nil
}

type fakeProvisioner struct {
	calls      int
	lastServer uint
	lastUser   uint
	err        error
}

func (f *fakeProvisioner) ProvisionForServer(_ context.Context, server *entity.Server, userID uint) (*entity.DaemonCredential, error) {
	serverID := server.ID
	f.calls++
	f.lastServer = serverID
	f.lastUser = userID
	if f.err != nil {
		return nil, f.err
	}
	return &entity.DaemonCredential{
		Token:     "token-for-" + uuid.NewString(),
		ServerID:  serverID,
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Minute),
	}, nil
}

type fakeFetcher struct {
	calls   int
	lastReq infra.DetailsRequest
	payload json.RawMessage
	err     error
}

func (f *fakeFetcher) FetchDetails(_ context.Context, req infra.DetailsRequest) (json.RawMessage, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.payload, nil
}

const (
	ownerID    uint = 1
	subuserID  uint = 2
	adminID    uint = 3
	strangerID uint = 4
)

func fixtures() (*fakeServers, *fakeNodes, *AccessService) {
	node := &entity.Node{ID: 10, UUID: uuid.New(), FQDN: "node.example.com", DaemonListen: 8080, DaemonSecret: "node-secret"}
	server := &entity.Server{
		ID:        100,
		UUID:      uuid.New(),
		UUIDShort: "abcd1234",
		NodeID:    node.ID,
		OwnerID:   ownerID,
		Installed: entity.InstallDone,
	}

	servers := &fakeServers{servers: map[uint]*entity.Server{server.ID: server}}
	nodes := &fakeNodes{nodes: map[uint]*entity.Node{node.ID: node}}
	users := &fakeUsers{users: map[uint]*entity.User{
		ownerID:    {ID: ownerID},
		subuserID:  {ID: subuserID},
		adminID:    {ID: adminID, RootAdmin: true},
		strangerID: {ID: strangerID},
	}}
	subusers := &fakeSubusers{pairs: map[[2]uint]bool{{server.ID, subuserID}: true}}

	return servers, nodes, NewAccessService(users, subusers)
}

var errBoom = errors.New("boom")
