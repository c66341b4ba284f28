package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/guessparty/rangebet/internal/rangebet"
)

type JoinRequest struct {
	PlayerID string `json:"playerId,omitempty"`
	Name     string `json:"name"`
}

type JoinResponse struct {
	PlayerID string            `json:"playerId"`
	Room     RoomStateResponse `json:"room"`
}

func handleJoin(store Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code, err := normalizeCode(chi.URLParam(r, "code"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "room code must be 4 characters A-Z0-9")
			return
		}

		var req JoinRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}

		playerID := resolvePlayerID(req.PlayerID)

		room, err := transitionRoom(r.Context(), store, code, func(room *rangebet.Room) error {
			return room.Join(playerID, req.Name, time.Now())
		})
		if err != nil {
			writeGameError(w, err)
			return
		}

		snap := roomSnapshot(code, room)
		broker.Publish(r.Context(), code, snap)

		writeJSON(w, http.StatusOK, JoinResponse{
			PlayerID: playerID,
			Room:     snap,
		})
	}
}
