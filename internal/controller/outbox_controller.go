package controller

import (
	"net/http"

	"github.com/walletcore/schedpay/internal/domain/outbox"
	"github.com/walletcore/schedpay/internal/service"
)

// OutboxController handles pending-transaction queue HTTP requests.
type OutboxController struct {
	outboxService *service.OutboxService
}

// NewOutboxController creates a new OutboxController.
func NewOutboxController(outboxService *service.OutboxService) *OutboxController {
	return &OutboxController{outboxService: outboxService}
}

// Enqueue handles POST /api/v1/outbox
func (h *OutboxController) Enqueue(w http.ResponseWriter, r *http.Request) {
	var req EnqueueOutboxRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	tx, err := h.outboxService.EnqueueTransaction(r.Context(), service.EnqueueRequest{
		ToAddress:   req.ToAddress,
		AmountMinor: req.AmountMinor,
		Token:       req.Token,
		Memo:        req.Memo,
		FeePreset:   outbox.FeePreset(req.FeePreset),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toOutboxEntryResponse(tx))
}

// List handles GET /api/v1/outbox
func (h *OutboxController) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.outboxService.ListPending(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]OutboxEntryResponse, 0, len(entries))
	for _, tx := range entries {
		resp = append(resp, toOutboxEntryResponse(tx))
	}
	writeJSON(w, http.StatusOK, resp)
}
