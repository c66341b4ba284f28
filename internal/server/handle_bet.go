package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/guessparty/rangebet/internal/rangebet"
)

type BetRequest struct {
	Value int `json:"value"`
}

func handleBet(store Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code, err := normalizeCode(chi.URLParam(r, "code"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "room code must be 4 characters A-Z0-9")
			return
		}

		playerID, err := playerFromRequest(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "player identity required")
			return
		}

		var req BetRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		room, err := transitionRoom(r.Context(), store, code, func(room *rangebet.Room) error {
			return room.PlaceBet(playerID, req.Value)
		})
		if err != nil {
			writeGameError(w, err)
			return
		}

		snap := roomSnapshot(code, room)
		broker.Publish(r.Context(), code, snap)
		writeJSON(w, http.StatusOK, snap)
	}
}
