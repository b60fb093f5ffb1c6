package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walletcore/schedpay/internal/service"
	"github.com/walletcore/schedpay/internal/testutil"
)

func setupOutboxRouter() (*chi.Mux, *testutil.MockOutboxRepository) {
	repo := testutil.NewMockOutboxRepository()
	svc := service.NewOutboxService(repo, zerolog.Nop())
	h := NewOutboxController(svc)

	r := chi.NewRouter()
	r.Post("/outbox", h.Enqueue)
	r.Get("/outbox", h.List)
	return r, repo
}

func TestOutboxController_Enqueue(t *testing.T) {
	router, repo := setupOutboxRouter()

	rec := postJSON(t, router, "/outbox", EnqueueOutboxRequest{
		ToAddress:   "addr1",
		AmountMinor: 2500,
		Token:       "USDC",
		FeePreset:   "priority",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp OutboxEntryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "addr1", resp.ToAddress)
	assert.Equal(t, "priority", resp.FeePreset)
	assert.Equal(t, 0, resp.Retries)
	assert.Equal(t, 1, repo.Depth())
}

func TestOutboxController_Enqueue_UnknownFeePreset(t *testing.T) {
	router, repo := setupOutboxRouter()

	rec := postJSON(t, router, "/outbox", EnqueueOutboxRequest{
		ToAddress:   "addr1",
		AmountMinor: 2500,
		Token:       "USDC",
		FeePreset:   "turbo",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, repo.Depth())
}

func TestOutboxController_Enqueue_MissingAmount(t *testing.T) {
	router, _ := setupOutboxRouter()

	rec := postJSON(t, router, "/outbox", EnqueueOutboxRequest{
		ToAddress: "addr1",
		Token:     "USDC",
		FeePreset: "normal",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOutboxController_List(t *testing.T) {
	router, repo := setupOutboxRouter()

	for _, addr := range []string{"a", "b"} {
		rec := postJSON(t, router, "/outbox", EnqueueOutboxRequest{
			ToAddress:   addr,
			AmountMinor: 100,
			Token:       "USDC",
			FeePreset:   "normal",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	require.Equal(t, 2, repo.Depth())

	req := httptest.NewRequest(http.MethodGet, "/outbox", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []OutboxEntryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "a", resp[0].ToAddress)
	assert.Equal(t, "b", resp[1].ToAddress)
}

func TestOutboxController_List_Empty(t *testing.T) {
	router, _ := setupOutboxRouter()

	req := httptest.NewRequest(http.MethodGet, "/outbox", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}
