package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/guessparty/rangebet/internal/rangebet"
)

type CreateRoomRequest struct {
	PlayerID string `json:"playerId,omitempty"`
}

type CreateRoomResponse struct {
	Code     string `json:"code"`
	PlayerID string `json:"playerId"`
}

func handleCreateRoom(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateRoomRequest
		// An empty body is fine: first-time hosts have no identity yet.
		if err := readJSON(r, &req); err != nil && r.ContentLength > 0 {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		hostID := resolvePlayerID(req.PlayerID)
		room := rangebet.NewRoom(hostID, time.Now())

		// Regenerate on collision, nothing else: a taken code leaves no
		// side effects behind.
		var code string
		for {
			code = newRoomCode()
			err := store.CreateRoom(r.Context(), code, room)
			if errors.Is(err, ErrRoomExists) {
				continue
			}
			if err != nil {
				writeGameError(w, err)
				return
			}
			break
		}

		writeJSON(w, http.StatusCreated, CreateRoomResponse{
			Code:     code,
			PlayerID: hostID,
		})
	}
}
