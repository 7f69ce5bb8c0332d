package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// handleEventStream handles GET /v1/events/stream. It streams ledger
// events to the client as server-sent events until the client
// disconnects or the bus closes.
func (h *Handler) handleEventStream(w http.ResponseWriter, r *http.Request) {
	sub := h.registry.Subscribe()
	if sub == nil {
		h.writeError(w, r, http.StatusServiceUnavailable, "MV-SYS-5000", "event stream not available", nil)
		return
	}
	defer sub.Close()

	flusher, ok := w.(http.Flusher)
	if !ok {
		h.writeError(w, r, http.StatusInternalServerError, "MV-SYS-5000", "streaming not supported", nil)
		return
	}

	// The stream is long-lived; lift the server-wide write deadline
	// for this response only.
	rc := http.NewResponseController(w)
	rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		ev, ok := sub.Next(r.Context())
		if !ok {
			return
		}

		data, err := json.Marshal(ev)
		if err != nil {
			h.logger.Error("failed to marshal event", "error", err, "event_id", ev.ID)
			continue
		}

		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Kind, data); err != nil {
			return
		}
		flusher.Flush()
	}
}
