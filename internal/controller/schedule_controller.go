package controller

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/walletcore/schedpay/internal/domain/schedule"
	"github.com/walletcore/schedpay/internal/service"
)

// ScheduleController handles scheduled-payment HTTP requests.
type ScheduleController struct {
	scheduleService *service.ScheduleService
}

// NewScheduleController creates a new ScheduleController.
func NewScheduleController(scheduleService *service.ScheduleService) *ScheduleController {
	return &ScheduleController{scheduleService: scheduleService}
}

// Create handles POST /api/v1/schedules
func (h *ScheduleController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateScheduleRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	sp, err := h.scheduleService.CreateScheduledPayment(r.Context(), service.CreateScheduleRequest{
		RecipientAddress: req.RecipientAddress,
		RecipientName:    req.RecipientName,
		AmountMinor:      req.AmountMinor,
		Token:            req.Token,
		Memo:             req.Memo,
		StartAt:          req.StartAt,
		RepeatInterval:   schedule.RepeatInterval(req.RepeatInterval),
		MaxExecutions:    req.MaxExecutions,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toScheduleResponse(sp))
}

// Get handles GET /api/v1/schedules/{id}
func (h *ScheduleController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid schedule id", Code: "invalid_id"})
		return
	}

	sp, err := h.scheduleService.GetSchedule(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toScheduleResponse(sp))
}

// List handles GET /api/v1/schedules
func (h *ScheduleController) List(w http.ResponseWriter, r *http.Request) {
	filter := schedule.ListFilter{}

	if s := r.URL.Query().Get("status"); s != "" {
		status := schedule.Status(s)
		filter.Status = &status
	}
	filter.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	filter.Offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	filter.SortOrder = r.URL.Query().Get("sort_order")

	schedules, err := h.scheduleService.ListSchedules(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]ScheduleResponse, 0, len(schedules))
	for _, sp := range schedules {
		resp = append(resp, toScheduleResponse(sp))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Cancel handles POST /api/v1/schedules/{id}/cancel
func (h *ScheduleController) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.scheduleService.CancelPayment)
}

// Pause handles POST /api/v1/schedules/{id}/pause
func (h *ScheduleController) Pause(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.scheduleService.PausePayment)
}

// Resume handles POST /api/v1/schedules/{id}/resume
func (h *ScheduleController) Resume(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.scheduleService.ResumePayment)
}

func (h *ScheduleController) transition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id uuid.UUID) error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid schedule id", Code: "invalid_id"})
		return
	}

	if err := op(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	sp, err := h.scheduleService.GetSchedule(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toScheduleResponse(sp))
}
