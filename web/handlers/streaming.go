package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/alienxp03/arbiter/internal/debate"
)

// handleDebateStream runs a debate and streams round progress using
// Server-Sent Events. The result arrives as the final event; a hard
// failure arrives as an error event instead.
func (h *Handler) handleDebateStream(w http.ResponseWriter, r *http.Request) {
	question := r.URL.Query().Get("question")
	slog.Debug("New debate stream connection", "remote_addr", r.RemoteAddr)

	// Set headers for SSE
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	flusher, ok := w.(http.Flusher)
	if !ok {
		slog.Error("Streaming unsupported: ResponseWriter does not implement http.Flusher")
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	result, err := h.engine.RunWithProgress(r.Context(), question, func(s debate.State) {
		h.sendSSEEvent(w, flusher, "state", map[string]string{"state": string(s)})
	})
	if err != nil {
		slog.Error("Streamed debate failed", "error", err)
		h.sendSSEError(w, flusher, err.Error())
		return
	}

	h.sendSSEEvent(w, flusher, "result", result)
}

// sendSSEEvent sends a server-sent event.
func (h *Handler) sendSSEEvent(w http.ResponseWriter, flusher http.Flusher, eventType string, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		slog.Error("Failed to marshal SSE data", "error", err)
		return
	}

	if _, err := fmt.Fprintf(w, "event: %s\n", eventType); err != nil {
		slog.Error("Failed to write SSE event", "error", err)
		return
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", jsonData); err != nil {
		slog.Error("Failed to write SSE data", "error", err)
		return
	}
	flusher.Flush()
}

// sendSSEError sends an error event.
func (h *Handler) sendSSEError(w http.ResponseWriter, flusher http.Flusher, message string) {
	errorData := map[string]string{"message": message}
	h.sendSSEEvent(w, flusher, "error", errorData)
}
