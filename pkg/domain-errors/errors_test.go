package derrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(CodeUnavailable, "cannot reach the server", cause)

	require.ErrorIs(t, err, cause)
	assert.True(t, Is(err, CodeUnavailable))
	assert.Equal(t, "cannot reach the server", MessageOf(err))
}

func TestIsMatchesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("add item: %w", New(CodeBadRequest, "quantity must be positive"))

	assert.True(t, Is(err, CodeBadRequest))
	assert.False(t, Is(err, CodeUnauthorized))
	assert.Equal(t, CodeBadRequest, CodeOf(err))
}

func TestNonDomainErrorsStayGeneric(t *testing.T) {
	err := errors.New("pq: relation does not exist")

	assert.Equal(t, CodeInternal, CodeOf(err))
	assert.Equal(t, "internal error", MessageOf(err))
}

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeBadRequest, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeUnavailable, http.StatusServiceUnavailable},
		{CodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToHTTPStatus(tt.code), string(tt.code))
	}
}
