package server

import (
	"database/sql"
	"errors"
	"net/http"
	"time"
)

type adminSession struct {
	AdminID string
	Email   string
}

var errNoAdminSession = errors.New("no valid admin session")

const (
	adminCookieName = "admin_session"

	// adminSessionTTL bounds a session server-side; stale rows stop
	// matching regardless of what the client does with the cookie.
	adminSessionTTL = 24 * time.Hour
)

// sessionCutoff is the oldest created_at still accepted, in the same
// strftime format the migrations write, so the comparison stays textual.
func sessionCutoff(now time.Time) string {
	return now.UTC().Add(-adminSessionTTL).Format("2006-01-02T15:04:05.000Z")
}

// adminFromRequest reads the admin_session cookie and resolves it to an
// unexpired session.
func adminFromRequest(r *http.Request, db *sql.DB) (adminSession, error) {
	cookie, err := r.Cookie(adminCookieName)
	if err != nil || cookie.Value == "" {
		return adminSession{}, errNoAdminSession
	}

	var s adminSession
	err = db.QueryRowContext(r.Context(), `
		SELECT a.id, a.email
		FROM admin_sessions s
		JOIN admins a ON a.id = s.admin_id
		WHERE s.id = ? AND s.created_at >= ?
	`, cookie.Value, sessionCutoff(time.Now())).Scan(&s.AdminID, &s.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return adminSession{}, errNoAdminSession
	}
	return s, err
}

func adminAuthMiddleware(db *sql.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := adminFromRequest(r, db); err != nil {
				writeError(w, http.StatusUnauthorized, "not authenticated")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
