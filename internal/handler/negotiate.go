// Package handler provides HTTP handlers for the API.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cartai/negotiation-platform/internal/agent"
	"github.com/cartai/negotiation-platform/internal/middleware"
	"github.com/cartai/negotiation-platform/internal/model"
	"github.com/cartai/negotiation-platform/internal/negotiation"
	"github.com/cartai/negotiation-platform/internal/service"
	"github.com/cartai/negotiation-platform/pkg/logger"
	"github.com/cartai/negotiation-platform/pkg/metrics"
)

// NegotiateHandler handles the SSE negotiation endpoints.
type NegotiateHandler struct {
	service *service.NegotiationService
	logger  *logger.Logger
}

// NewNegotiateHandler creates a new negotiate handler.
func NewNegotiateHandler(svc *service.NegotiationService, log *logger.Logger) *NegotiateHandler {
	return &NegotiateHandler{
		service: svc,
		logger:  log,
	}
}

// MetricEvent carries the running best offer and overall progress.
type MetricEvent struct {
	CurrentBest *model.Offer `json:"current_best,omitempty"`
	Progress    float64      `json:"progress"`
}

// ErrorEvent is the terminal frame sent when a run fails mid-stream.
type ErrorEvent struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Negotiate handles POST /api/v1/negotiate
// Streams the multi-seller negotiation as SSE events.
func (h *NegotiateHandler) Negotiate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.NegotiateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := middleware.ValidateNegotiateRequest(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}
	setSSEHeaders(w)

	metrics.IncrementSSEConnections()
	defer metrics.DecrementSSEConnections()

	_, err := h.service.RunMulti(ctx, &req, streamUpdates(w, flusher))
	if err != nil {
		h.logger.Error("negotiation failed", "product", req.Product, "error", err)
		sendSSEEvent(w, flusher, "error", &ErrorEvent{
			Code:    "negotiation_error",
			Message: err.Error(),
		})
	}
}

// NegotiateStore handles POST /api/v1/negotiate/store
// Streams a single-seller negotiation against the selected store.
func (h *NegotiateHandler) NegotiateStore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.NegotiateStoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := middleware.ValidateNegotiateStoreRequest(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, ok := agent.FindProfile(agent.DefaultSellerProfiles, req.StoreID); !ok {
		writeError(w, http.StatusNotFound, "store not found")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}
	setSSEHeaders(w)

	metrics.IncrementSSEConnections()
	defer metrics.DecrementSSEConnections()

	if err := h.service.RunSingle(ctx, &req, streamUpdates(w, flusher)); err != nil {
		h.logger.Error("store negotiation failed",
			"product", req.Product,
			"store_id", req.StoreID,
			"error", err,
		)
		code := "negotiation_error"
		if errors.Is(err, negotiation.ErrUnknownSeller) {
			code = "unknown_store"
		}
		sendSSEEvent(w, flusher, "error", &ErrorEvent{
			Code:    code,
			Message: err.Error(),
		})
	}
}

// streamUpdates translates engine updates into SSE frames.
func streamUpdates(w http.ResponseWriter, flusher http.Flusher) negotiation.UpdateFunc {
	return func(update model.NegotiationUpdate) {
		switch update.Type {
		case model.UpdateMessage:
			sendSSEEvent(w, flusher, "message", update.Message)
		case model.UpdateMetric:
			sendSSEEvent(w, flusher, "metric", &MetricEvent{
				CurrentBest: update.CurrentBest,
				Progress:    update.Progress,
			})
		case model.UpdateComplete:
			sendSSEEvent(w, flusher, "complete", update.Result)
		}
	}
}
