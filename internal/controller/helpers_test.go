package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainErrors "github.com/walletcore/schedpay/internal/domain/errors"
)

func TestWriteError_SentinelMappings(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"schedule not found", domainErrors.ErrScheduleNotFound, http.StatusNotFound, "not_found"},
		{"outbox entry not found", domainErrors.ErrOutboxEntryNotFound, http.StatusNotFound, "not_found"},
		{"invalid transition", domainErrors.ErrInvalidStateTransition, http.StatusConflict, "invalid_state_transition"},
		{"executions exhausted", domainErrors.ErrExecutionsExhausted, http.StatusConflict, "executions_exhausted"},
		{"network unavailable", domainErrors.ErrNetworkUnavailable, http.StatusServiceUnavailable, "endpoint_unavailable"},
		{"auth required", domainErrors.ErrAuthRequired, http.StatusUnauthorized, "auth_required"},
		{"invalid input", domainErrors.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCode, resp.Code)
		})
	}
}

func TestWriteError_WrappedSentinel(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, domainErrors.NewDomainError("gone", "schedule vanished", domainErrors.ErrScheduleNotFound))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWriteError_ValidationError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, domainErrors.NewValidationError("amount", "must be greater than 0"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "validation_error", resp.Code)
}

func TestWriteError_BareDomainError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, domainErrors.NewDomainError("some_rule", "broke a rule", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "some_rule", resp.Code)
}

func TestWriteError_UnknownErrorHidesDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "internal server error", resp.Error)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestWriteJSON_SetsContentType(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusTeapot, map[string]string{"k": "v"})

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}
