package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/guessparty/rangebet/internal/rangebet"
)

// handleReveal closes betting for the round: draws a number within the
// current range, credits every exact-match bet, and moves to results.
// Revealing with zero bets recorded is allowed — the draw still happens and
// nobody scores. draw is injected so tests can force the outcome.
func handleReveal(store Store, broker *Broker, draw func(rangebet.Range) int) http.HandlerFunc {
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
			if room.CurrentRange == nil {
				return rangebet.ErrWrongPhase
			}
			// Drawn inside the transition so a retry after a revision
			// conflict re-checks the phase before drawing again.
			return room.Reveal(actorID, draw(*room.CurrentRange))
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
