package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorChain(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("save record: %w", NewPersistence("ledger record", cause))

	assert.True(t, IsPersistence(err))
	assert.False(t, IsNotFound(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusServiceUnavailable, GetHTTPStatus(err))
}

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewValidation("bad"), http.StatusBadRequest},
		{"invalid input", NewInvalidInput("qty", "must be >= 0"), http.StatusBadRequest},
		{"not found", NewNotFound("price", "p1"), http.StatusNotFound},
		{"duplicate", NewDuplicate("price", "effectiveFrom", "2026-01-01"), http.StatusConflict},
		{"unauthorized", NewUnauthorized("no token"), http.StatusUnauthorized},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.err))
		})
	}
}

func TestWithDetail(t *testing.T) {
	err := NewValidation("bad").WithDetail("field", "qty")
	assert.Equal(t, "qty", err.Details["field"])
	assert.Equal(t, "VALIDATION_ERROR: bad", err.Error())
}
