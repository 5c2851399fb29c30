package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cartai/negotiation-platform/internal/middleware"
	natsclient "github.com/cartai/negotiation-platform/internal/nats"
	"github.com/cartai/negotiation-platform/pkg/logger"
	"github.com/cartai/negotiation-platform/pkg/metrics"
)

// TranscriptHandler replays persisted negotiation transcripts.
type TranscriptHandler struct {
	streamManager *natsclient.StreamManager
	logger        *logger.Logger
}

// NewTranscriptHandler creates a new transcript handler.
func NewTranscriptHandler(sm *natsclient.StreamManager, log *logger.Logger) *TranscriptHandler {
	return &TranscriptHandler{
		streamManager: sm,
		logger:        log,
	}
}

// ReplayCompleteEvent marks the end of a transcript replay.
type ReplayCompleteEvent struct {
	LastSequence uint64 `json:"last_sequence"`
	MessageCount int    `json:"message_count"`
}

// Replay handles GET /api/v1/negotiations/:id/transcript
// Supports ?after_sequence=N for resuming from a specific point.
func (h *TranscriptHandler) Replay(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	runID := chi.URLParam(r, "id")

	if err := middleware.ValidateConversationID(runID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if h.streamManager == nil {
		writeError(w, http.StatusServiceUnavailable, "transcript storage unavailable")
		return
	}

	var afterSequence uint64
	if seqStr := r.URL.Query().Get("after_sequence"); seqStr != "" {
		if seq, err := strconv.ParseUint(seqStr, 10, 64); err == nil {
			afterSequence = seq
		}
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}
	setSSEHeaders(w)

	metrics.IncrementSSEConnections()
	defer metrics.DecrementSSEConnections()

	done := ctx.Done()

	var lastSequence uint64
	var totalReplayed int

	for {
		msgs, last, hasMore, err := h.streamManager.GetTranscript(ctx, runID, afterSequence, 50)
		if err != nil {
			h.logger.Error("failed to replay transcript", "run_id", runID, "error", err)
			sendSSEEvent(w, flusher, "error", &ErrorEvent{
				Code:    "replay_error",
				Message: "Failed to replay transcript",
			})
			return
		}

		for i := range msgs {
			select {
			case <-done:
				return
			default:
			}
			sendSSEEvent(w, flusher, "message", &msgs[i])
			totalReplayed++
		}
		lastSequence = last

		if !hasMore {
			break
		}
		afterSequence = lastSequence
	}

	sendSSEEvent(w, flusher, "replay_complete", &ReplayCompleteEvent{
		LastSequence: lastSequence,
		MessageCount: totalReplayed,
	})

	h.logger.Info("transcript replay complete",
		"run_id", runID,
		"messages_replayed", totalReplayed,
		"last_sequence", lastSequence,
	)
}
