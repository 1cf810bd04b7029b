package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tnqbao/gau-game-panel/apperror"
	"github.com/tnqbao/gau-game-panel/config"
	"github.com/tnqbao/gau-game-panel/entity"
	"github.com/tnqbao/gau-game-panel/infra"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeServerStore struct {
	servers     []*entity.Server
	searchQuery string
	searchAdmin bool
	suspended   map[uint]bool
	deleted     []uint
	restored    []uint
	restoreErr  error
}

func (f *fakeServerStore) FindByUUIDShort(_ context.Context, short string) (*entity.Server, error) {
	for _, s := range f.servers {
		if s.UUIDShort == short {
			return s, nil
		}
	}
	return nil, apperror.NotFoundf("server %s not found", short)
}

func (f *fakeServerStore) FindByUUID(_ context.Context, id uuid.UUID) (*entity.Server, error) {
	for _, s := range f.servers {
		if s.UUID == id {
			return s, nil
		}
	}
	return nil, apperror.NotFoundf("server %s not found", id)
}

func (f *fakeServerStore) SearchAccessible(_ context.Context, userID uint, rootAdmin bool, query string) ([]entity.Server, error) {
	f.searchQuery = query
	f.searchAdmin = rootAdmin
	var out []entity.Server
	for _, s := range f.servers {
		if rootAdmin || s.OwnerID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeServerStore) SetSuspended(_ context.Context, id uint, suspended bool) error {
	if f.suspended == nil {
		f.suspended = map[uint]bool{}
	}
	f.suspended[id] = suspended
	return nil
}

func (f *fakeServerStore) Delete(_ context.Context, id uint) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeServerStore) Restore(_ context.Context, id uint) error {
	if f.restoreErr != nil {
		return f.restoreErr
	}
	f.restored = append(f.restored, id)
	return nil
}

type fakeAccess struct {
	admins map[uint]bool
}

func (f *fakeAccess) IsRootAdmin(_ context.Context, userID uint) (bool, error) {
	return f.admins[userID], nil
}

type fakeResolver struct {
	calls  int
	status *entity.StatusResponse
	err    error
}

func (f *fakeResolver) Resolve(_ context.Context, _ *entity.Server, _ uint) (*entity.StatusResponse, error) {
	f.calls++
	return f.status, f.err
}

type publishedEvent struct {
	kind     string
	serverID uint
	value    bool
}

type fakeEvents struct {
	events []publishedEvent
	err    error
}

func (f *fakeEvents) PublishInstallCompleted(_ context.Context, serverID uint, successful bool) error {
	f.events = append(f.events, publishedEvent{"install", serverID, successful})
	return f.err
}

func (f *fakeEvents) PublishSuspensionChanged(_ context.Context, serverID uint, suspended bool) error {
	f.events = append(f.events, publishedEvent{"suspension", serverID, suspended})
	return f.err
}

type harness struct {
	ctrl     *Controller
	servers  *fakeServerStore
	resolver *fakeResolver
	events   *fakeEvents
	server   *entity.Server
}

func newHarness() *harness {
	server := &entity.Server{
		ID:        11,
		UUID:      uuid.MustParse("6f1b0c1e-4a7b-4b1e-9d35-0d8f1f0b7c11"),
		UUIDShort: "6f1b0c1e",
		Name:      "survival",
		NodeID:    7,
		OwnerID:   1,
		Installed: entity.InstallDone,
		Node:      &entity.Node{ID: 7, Name: "fra-1"},
		Owner:     &entity.User{ID: 1, Username: "alice"},
	}
	servers := &fakeServerStore{servers: []*entity.Server{server}}
	resolver := &fakeResolver{}
	events := &fakeEvents{}

	ctrl := &Controller{
		Config:  &config.Config{EnvConfig: &config.EnvConfig{}},
		Logger:  infra.NewNopLogger(),
		Servers: servers,
		Access:  &fakeAccess{admins: map[uint]bool{9: true}},
		Status:  resolver,
		Events:  events,
	}
	return &harness{ctrl: ctrl, servers: servers, resolver: resolver, events: events, server: server}
}

// router installs handlers behind a stub that authenticates as userID
// (0 means anonymous) and, for remote routes, as nodeID.
func (h *harness) router(userID, nodeID uint) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != 0 {
			c.Set("user_id", userID)
		}
		if nodeID != 0 {
			c.Set("node_id", nodeID)
		}
		c.Next()
	})
	r.GET("/servers", h.ctrl.ListServers)
	r.GET("/servers/:uuidShort/status", h.ctrl.GetServerStatus)
	r.POST("/remote/servers/:uuid/install", h.ctrl.InstallCallback)
	r.POST("/admin/servers/:uuid/suspension", h.ctrl.SetServerSuspension)
	r.DELETE("/admin/servers/:uuid", h.ctrl.DeleteServer)
	r.POST("/admin/deleted-servers/:id/restore", h.ctrl.RestoreServer)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetServerStatus_LocalCodes(t *testing.T) {
	for name, tc := range map[string]struct {
		status *entity.StatusResponse
		body   string
	}{
		"not installed": {entity.NotInstalledStatus(), `{"status":20}`},
		"suspended":     {entity.SuspendedStatus(), `{"status":30}`},
	} {
		t.Run(name, func(t *testing.T) {
			h := newHarness()
			h.resolver.status = tc.status

			w := do(h.router(1, 0), http.MethodGet, "/servers/6f1b0c1e/status", "")
			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, tc.body, w.Body.String())
		})
	}
}

func TestGetServerStatus_LivePayloadIsVerbatim(t *testing.T) {
	h := newHarness()
	payload := `{"status":1,"proc":{"cpu":{"current":12.5}},"query":null}`
	h.resolver.status = entity.LiveStatus(json.RawMessage(payload))

	w := do(h.router(1, 0), http.MethodGet, "/servers/6f1b0c1e/status", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, payload, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
}

func TestGetServerStatus_UnknownServer(t *testing.T) {
	h := newHarness()

	w := do(h.router(1, 0), http.MethodGet, "/servers/deadbeef/status", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Zero(t, h.resolver.calls)
}

func TestGetServerStatus_Errors(t *testing.T) {
	for name, tc := range map[string]struct {
		err    error
		status int
		msg    string
	}{
		"forbidden":   {apperror.Forbiddenf("user 2 has no access to server 6f1b0c1e"), http.StatusForbidden, "user 2 has no access to server 6f1b0c1e"},
		"daemon down": {apperror.DaemonUnreachable("dial tcp 10.0.0.7:8080: connect: connection refused", nil), http.StatusInternalServerError, "dial tcp 10.0.0.7:8080: connect: connection refused"},
	} {
		t.Run(name, func(t *testing.T) {
			h := newHarness()
			h.resolver.err = tc.err

			w := do(h.router(2, 0), http.MethodGet, "/servers/6f1b0c1e/status", "")
			assert.Equal(t, tc.status, w.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.msg, body["error"])
		})
	}
}

func TestGetServerStatus_Anonymous(t *testing.T) {
	h := newHarness()
	w := do(h.router(0, 0), http.MethodGet, "/servers/6f1b0c1e/status", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListServers(t *testing.T) {
	h := newHarness()

	w := do(h.router(1, 0), http.MethodGet, "/servers?query=surv", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "surv", h.servers.searchQuery)
	assert.False(t, h.servers.searchAdmin)

	var body struct {
		Servers []map[string]any `json:"servers"`
		Total   int              `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, 1, body.Total)
	assert.Equal(t, "6f1b0c1e", body.Servers[0]["uuid_short"])
	assert.Equal(t, "fra-1", body.Servers[0]["node_name"])
	assert.Equal(t, "alice", body.Servers[0]["owner_username"])

	w = do(h.router(9, 0), http.MethodGet, "/servers", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, h.servers.searchAdmin)
}

func TestInstallCallback(t *testing.T) {
	h := newHarness()

	w := do(h.router(0, 7), http.MethodPost, "/remote/servers/6f1b0c1e-4a7b-4b1e-9d35-0d8f1f0b7c11/install", `{"successful":false}`)
	assert.Equal(t, http.StatusNoContent, w.Code)
	require.Len(t, h.events.events, 1)
	assert.Equal(t, publishedEvent{"install", 11, false}, h.events.events[0])
}

func TestInstallCallback_WrongNode(t *testing.T) {
	h := newHarness()

	w := do(h.router(0, 8), http.MethodPost, "/remote/servers/6f1b0c1e-4a7b-4b1e-9d35-0d8f1f0b7c11/install", `{"successful":true}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, h.events.events)
}

func TestInstallCallback_BadPayload(t *testing.T) {
	h := newHarness()

	w := do(h.router(0, 7), http.MethodPost, "/remote/servers/6f1b0c1e-4a7b-4b1e-9d35-0d8f1f0b7c11/install", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(h.router(0, 7), http.MethodPost, "/remote/servers/not-a-uuid/install", `{"successful":true}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, h.events.events)
}

func TestInstallCallback_PublishFailure(t *testing.T) {
	h := newHarness()
	h.events.err = errors.New("channel closed")

	w := do(h.router(0, 7), http.MethodPost, "/remote/servers/6f1b0c1e-4a7b-4b1e-9d35-0d8f1f0b7c11/install", `{"successful":true}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestSetServerSuspension(t *testing.T) {
	h := newHarness()

	w := do(h.router(1, 0), http.MethodPost, "/admin/servers/6f1b0c1e/suspension", `{"suspended":true}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, h.servers.suspended)

	w = do(h.router(9, 0), http.MethodPost, "/admin/servers/6f1b0c1e/suspension", `{"suspended":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, h.servers.suspended[11])
	assert.Equal(t, []publishedEvent{{"suspension", 11, true}}, h.events.events)

	w = do(h.router(9, 0), http.MethodPost, "/admin/servers/6f1b0c1e-4a7b-4b1e-9d35-0d8f1f0b7c11/suspension", `{"suspended":false}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, h.servers.suspended[11])

	w = do(h.router(9, 0), http.MethodPost, "/admin/servers/6f1b0c1e/suspension", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteAndRestoreServer(t *testing.T) {
	h := newHarness()

	w := do(h.router(1, 0), http.MethodDelete, "/admin/servers/6f1b0c1e", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(h.router(9, 0), http.MethodDelete, "/admin/servers/6f1b0c1e", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []uint{11}, h.servers.deleted)

	w = do(h.router(9, 0), http.MethodPost, "/admin/deleted-servers/11/restore", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []uint{11}, h.servers.restored)

	w = do(h.router(9, 0), http.MethodPost, "/admin/deleted-servers/abc/restore", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	h.servers.restoreErr = apperror.NotFoundf("deleted server 12 not found")
	w = do(h.router(9, 0), http.MethodPost, "/admin/deleted-servers/12/restore", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
