package server

import (
	"errors"
	"net/http"

	"github.com/guessparty/rangebet/internal/rangebet"
)

// writeGameError maps domain and store errors onto HTTP responses. Anything
// unrecognized is a backend failure and stays opaque to the client.
func writeGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "room not found")
	case errors.Is(err, rangebet.ErrNotHost):
		writeError(w, http.StatusForbidden, "only the host may do this")
	case errors.Is(err, rangebet.ErrNotJoined):
		writeError(w, http.StatusForbidden, "you have not joined this room")
	case errors.Is(err, rangebet.ErrRoomFull):
		writeError(w, http.StatusConflict, "the room is full")
	case errors.Is(err, rangebet.ErrAlreadyStarted):
		writeError(w, http.StatusConflict, "the game has already started or ended")
	case errors.Is(err, rangebet.ErrBetAlreadyPlaced):
		writeError(w, http.StatusConflict, "bet already placed this round")
	case errors.Is(err, rangebet.ErrWrongPhase):
		writeError(w, http.StatusConflict, "action not allowed in the current phase")
	case errors.Is(err, ErrRevisionConflict):
		writeError(w, http.StatusConflict, "room changed concurrently, retry")
	case errors.Is(err, ErrStoreUnavailable):
		writeError(w, http.StatusServiceUnavailable, "storage temporarily unavailable, retry")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
