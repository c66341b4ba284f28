package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

var errNoPlayer = errors.New("no player identity")

// playerFromRequest extracts the caller's player identity token. The token
// is a client-held claim, not an authenticated credential — the server only
// checks it against the room document's hostId and players map.
func playerFromRequest(r *http.Request) (string, error) {
	auth := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(auth, "Bearer ")
	if !found || strings.TrimSpace(token) == "" {
		return "", errNoPlayer
	}
	return strings.TrimSpace(token), nil
}

// resolvePlayerID returns the client-supplied identity, or mints a fresh one
// for first-time players. Clients persist the returned id and reuse it, which
// is what makes re-joining keep the accumulated score.
func resolvePlayerID(supplied string) string {
	supplied = strings.TrimSpace(supplied)
	if supplied != "" {
		return supplied
	}
	return uuid.NewString()
}
