package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tnqbao/gau-game-panel/apperror"
	"github.com/tnqbao/gau-game-panel/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestSignature_RoundTrip(t *testing.T) {
	body := []byte(`{"successful":true}`)
	sig := SignRequest("secret", "POST", "/api/remote/servers/x/install", 1700000000, body)

	assert.Len(t, sig, 64)
	assert.True(t, VerifySignature("secret", "POST", "/api/remote/servers/x/install", 1700000000, body, sig))
	assert.False(t, VerifySignature("other", "POST", "/api/remote/servers/x/install", 1700000000, body, sig))
	assert.False(t, VerifySignature("secret", "POST", "/api/remote/servers/x/install", 1700000001, body, sig))
	assert.False(t, VerifySignature("secret", "POST", "/api/remote/servers/x/install", 1700000000, []byte(`{"successful":false}`), sig))
}

func TestHashBody_Empty(t *testing.T) {
	assert.Equal(t, EmptyBodyHash, HashBody(nil))
	assert.Equal(t, "POST\n/p\n1\n"+EmptyBodyHash, StringToSign("POST", "/p", 1, nil))
}

func TestWithinTolerance(t *testing.T) {
	now := time.Unix(1700000000, 0)
	assert.True(t, WithinTolerance(now.Unix()-300, now, 300*time.Second))
	assert.True(t, WithinTolerance(now.Unix()+300, now, 300*time.Second))
	assert.False(t, WithinTolerance(now.Unix()-301, now, 300*time.Second))
}

func TestParseTokenAndInjectClaims(t *testing.T) {
	cfg := &config.EnvConfig{}
	cfg.JWT.SecretKey = "session-secret"
	cfg.JWT.Algorithm = "HS256"

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 42,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("session-secret"))
	require.NoError(t, err)

	token, err := ParseToken(signed, cfg)
	require.NoError(t, err)
	require.True(t, token.Valid)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	require.NoError(t, InjectClaimsToContext(c, token.Claims.(jwt.MapClaims)))

	id, err := GetUserIDFromContext(c)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
}

func TestParseToken_WrongSecret(t *testing.T) {
	cfg := &config.EnvConfig{}
	cfg.JWT.SecretKey = "session-secret"
	cfg.JWT.Algorithm = "HS256"

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": 1}).SignedString([]byte("nope"))
	require.NoError(t, err)

	_, err = ParseToken(signed, cfg)
	assert.Error(t, err)
}

func TestInjectClaimsToContext_Invalid(t *testing.T) {
	for _, claims := range []jwt.MapClaims{
		{},
		{"user_id": "abc"},
		{"user_id": -1.0},
		{"user_id": 1.5},
		{"user_id": "0"},
	} {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		assert.Error(t, InjectClaimsToContext(c, claims))
	}

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	require.NoError(t, InjectClaimsToContext(c, jwt.MapClaims{"user_id": "17"}))
	id, err := GetUserIDFromContext(c)
	require.NoError(t, err)
	assert.Equal(t, uint(17), id)
}

func TestJSONError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		body   string
	}{
		{apperror.NotFoundf("server %s not found", "abcd1234"), http.StatusNotFound, "server abcd1234 not found"},
		{apperror.Forbiddenf("nope"), http.StatusForbidden, "nope"},
		{apperror.DaemonUnreachable("daemon returned 502: bad gateway", nil), http.StatusInternalServerError, "daemon returned 502: bad gateway"},
		{apperror.Wrap(apperror.NotFoundf("node 1 not found"), apperror.CodeInternal, "failed to resolve node 1"), http.StatusInternalServerError, "failed to resolve node 1"},
		{errors.New("raw"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		JSONError(c, tt.err)

		assert.Equal(t, tt.status, w.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, tt.body, body["error"])
	}
}
