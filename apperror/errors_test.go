package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesByCode(t *testing.T) {
	err := NotFoundf("server %s not found", "abcd1234")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrForbidden))
	assert.Equal(t, "server abcd1234 not found", err.Error())
}

func TestError_WrappedStillMatches(t *testing.T) {
	err := fmt.Errorf("resolve status: %w", DaemonUnreachable("connection refused", nil))

	assert.True(t, errors.Is(err, ErrDaemonUnreachable))

	var appErr *Error
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, "connection refused", appErr.Message)
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPStatus())
}

func TestError_UnwrapCause(t *testing.T) {
	cause := errors.New("dial tcp: i/o timeout")
	err := DaemonUnreachable("daemon request failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "daemon request failed: dial tcp: i/o timeout", err.Error())
}

func TestCode_HTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeNotFound, http.StatusNotFound},
		{CodeForbidden, http.StatusForbidden},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeValidation, http.StatusBadRequest},
		{CodeRateLimited, http.StatusTooManyRequests},
		{CodeDaemonUnreachable, http.StatusInternalServerError},
		{CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}
