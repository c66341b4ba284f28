package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"nhooyr.io/websocket"
)

// handleRoomFeed is the websocket twin of the SSE stream: the same room
// snapshots, for clients that prefer a socket. Read side is only used to
// notice the peer going away.
func handleRoomFeed(logger *slog.Logger, store Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code, err := normalizeCode(chi.URLParam(r, "code"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "room code must be 4 characters A-Z0-9")
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

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		ctx, cancel := context.WithTimeout(r.Context(), 4*time.Hour)
		defer cancel()

		// Drain reads so pings and close frames are processed.
		go func() {
			for {
				if _, _, err := conn.Read(ctx); err != nil {
					cancel()
					return
				}
			}
		}()

		initial, _ := json.Marshal(roomEvent{Code: code, Room: roomSnapshot(code, room)})
		if err := conn.Write(ctx, websocket.MessageText, initial); err != nil {
			logger.Debug("websocket write failed", "error", err)
			return
		}

		for {
			select {
			case <-ctx.Done():
				return
			case data := <-ch:
				if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
					logger.Debug("websocket write failed", "error", err)
					return
				}
			}
		}
	}
}
