package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/guessparty/rangebet/internal/rangebet"
)

// WinnerInfo identifies the top scorer once a game has finished. Ties go to
// the earliest joiner.
type WinnerInfo struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
}

// RoomStateResponse is the full room document plus derived fields. It is
// both the GET response and the payload of every live update.
type RoomStateResponse struct {
	Code string `json:"code"`
	rangebet.Room
	Winner *WinnerInfo `json:"winner,omitempty"`
}

func roomSnapshot(code string, room rangebet.Room) RoomStateResponse {
	snap := RoomStateResponse{Code: code, Room: room}
	if id, ok := room.Winner(); ok {
		p := room.Players[id]
		snap.Winner = &WinnerInfo{PlayerID: id, Name: p.Name, Score: p.Score}
	}
	return snap
}

func handleRoomState(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code, err := normalizeCode(chi.URLParam(r, "code"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "room code must be 4 characters A-Z0-9")
			return
		}

		room, _, err := store.GetRoom(r.Context(), code)
		if err != nil {
			writeGameError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, roomSnapshot(code, room))
	}
}
