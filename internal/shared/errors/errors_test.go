package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	t.Run("message includes cause", func(t *testing.T) {
		err := Internal("ledger write failed", errors.New("connection reset"))
		assert.Equal(t, "ledger write failed: connection reset", err.Error())
	})

	t.Run("unwrap exposes cause", func(t *testing.T) {
		cause := errors.New("cause")
		err := Internal("", cause)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "internal server error", err.Message)
	})

	t.Run("default message comes from kind", func(t *testing.T) {
		assert.Equal(t, "method not allowed", MethodNotAllowed().Error())
		assert.Equal(t, "unauthorized", Unauthorized("", nil).Message)
	})
}

func TestKinds(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		status   int
		sentinel error
	}{
		{"unauthorized", Unauthorized("", nil), http.StatusUnauthorized, ErrUnauthorized},
		{"method not allowed", MethodNotAllowed(), http.StatusMethodNotAllowed, ErrMethodNotAllowed},
		{"unavailable", Unavailable("provider down", errors.New("503")), http.StatusInternalServerError, ErrUnavailable},
		{"internal", Internal("", nil), http.StatusInternalServerError, ErrInternal},
		{"too large", TooLarge(errors.New("http: request body too large")), http.StatusRequestEntityTooLarge, ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.StatusCode())
			assert.ErrorIs(t, tt.err, tt.sentinel)
		})
	}

	assert.NotErrorIs(t, Unavailable("x", nil), ErrInternal)
	assert.Equal(t, "unavailable", KindUnavailable.String())
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, StatusOf(fmt.Errorf("wrap: %w", Unauthorized("bad signature", nil))))
	assert.Equal(t, http.StatusMethodNotAllowed, StatusOf(MethodNotAllowed()))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("unknown")))
}
