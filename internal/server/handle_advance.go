package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/guessparty/rangebet/internal/rangebet"
)

func handleAdvance(store Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code, err := normalizeCode(chi.URLParam(r, "code"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "room code must be 4 characters A-Z0-9")
			return
		}

		actorID, err := playerFromRequest(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "player identity required")
			return
		}

		room, err := transitionRoom(r.Context(), store, code, func(room *rangebet.Room) error {
			return room.Advance(actorID)
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
