package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func handleAdminListRooms(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rooms, err := store.ListRooms(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if rooms == nil {
			rooms = []AdminRoomSummary{}
		}
		writeJSON(w, http.StatusOK, rooms)
	}
}

func handleAdminGetRoom(store Store) http.HandlerFunc {
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
