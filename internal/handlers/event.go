package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/event-ingest-service/internal/ingest"
	"github.com/PratikDhanave/event-ingest-service/internal/metrics"
	"github.com/PratikDhanave/event-ingest-service/internal/store"
)

// Plain-text response bodies.
const (
	MsgSaved         = "OK"
	MsgExpectedArray = "Expected JSON array"
	MsgTooLarge      = "Request body too large"
	MsgSaveFailed    = "Error saving events"
)

// Saver persists a raw request body as the current event batch.
type Saver interface {
	Save(ctx context.Context, body []byte) (ingest.Receipt, error)
}

// EventIngestHandler serves POST /api/saveEvents.
type EventIngestHandler struct {
	svc          Saver
	log          *slog.Logger
	maxBodyBytes int64
}

// NewEventIngestHandler returns a handler that reads at most maxBodyBytes of
// each request body; zero means no limit.
func NewEventIngestHandler(svc Saver, log *slog.Logger, maxBodyBytes int64) *EventIngestHandler {
	if log == nil {
		log = slog.Default()
	}
	return &EventIngestHandler{svc: svc, log: log, maxBodyBytes: maxBodyBytes}
}

// RegisterEventRoutes registers the ingestion endpoint.
//
// POST /api/saveEvents
// - Body must be a JSON array; any element shape is accepted
// - Replaces data/events.json in full (last write wins)
// - 200 OK | 400 not an array | 500 anything else, cause only logged
func RegisterEventRoutes(r gin.IRoutes, h *EventIngestHandler) {
	r.POST("/api/saveEvents", h.Ingest)
}

// Ingest stores the request body as the events blob and answers with a
// plain-text status message.
func (h *EventIngestHandler) Ingest(c *gin.Context) {
	ctx := c.Request.Context()

	var body io.Reader = c.Request.Body
	if h.maxBodyBytes > 0 {
		body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			metrics.ObserveOutcome(metrics.OutcomeInvalid)
			c.String(http.StatusBadRequest, MsgTooLarge)
			return
		}
		metrics.ObserveOutcome(metrics.OutcomeFailed)
		h.log.ErrorContext(ctx, "read request body failed", "error", err)
		c.String(http.StatusInternalServerError, MsgSaveFailed)
		return
	}

	if _, err := h.svc.Save(ctx, raw); err != nil {
		var ingestErr *ingest.Error
		if errors.As(err, &ingestErr) && ingestErr.Kind == ingest.KindInvalidInput {
			h.log.DebugContext(ctx, "rejected event batch", "reason", ingestErr.Reason)
			c.String(http.StatusBadRequest, MsgExpectedArray)
			return
		}

		h.log.ErrorContext(ctx, "save events failed",
			"error", err,
			"container", store.DefaultContainer,
			"key", store.DefaultKey,
		)
		c.String(http.StatusInternalServerError, MsgSaveFailed)
		return
	}

	c.String(http.StatusOK, MsgSaved)
}
