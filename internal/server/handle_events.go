package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// handleEvents streams room snapshots over SSE. The current document is sent
// immediately on connect, then once per committed write, matching the
// deliver-latest-on-every-change contract clients expect from the store.
func handleEvents(store Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code, err := normalizeCode(chi.URLParam(r, "code"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "room code must be 4 characters A-Z0-9")
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, "streaming not supported")
			return
		}

		// Subscribe before reading the snapshot: a write committed in the
		// gap is then queued on the channel instead of lost.
		ch := broker.Subscribe(code)
		defer broker.Unsubscribe(code, ch)

		room, _, err := store.GetRoom(r.Context(), code)
		if err != nil {
			writeGameError(w, err)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")

		initial, _ := json.Marshal(roomEvent{Code: code, Room: roomSnapshot(code, room)})
		fmt.Fprintf(w, "event: state\ndata: %s\n\n", initial)
		flusher.Flush()

		ping := time.NewTicker(30 * time.Second)
		defer ping.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case data := <-ch:
				fmt.Fprintf(w, "event: state\ndata: %s\n\n", data)
				flusher.Flush()
			case <-ping.C:
				fmt.Fprintf(w, ": ping\n\n")
				flusher.Flush()
			}
		}
	}
}
