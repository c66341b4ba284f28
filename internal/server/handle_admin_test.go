package server

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/guessparty/rangebet/internal/rangebet"
)

func adminRouter(t *testing.T) (*chi.Mux, *RoomStore, *sql.DB) {
	t.Helper()
	db := setupDB(t)
	store := NewRoomStore(db)

	if err := SeedAdmin(context.Background(), slog.Default(), db, "ops@rangebet.local", "hunter22"); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	r := chi.NewRouter()
	r.Post("/api/admin/login", handleAdminLogin(slog.Default(), db))
	r.Post("/api/admin/logout", handleAdminLogout(db))
	r.Get("/api/admin/me", handleAdminMe(db))
	r.Route("/api/admin/rooms", func(r chi.Router) {
		r.Use(adminAuthMiddleware(db))
		r.Get("/", handleAdminListRooms(store))
		r.Get("/{code}", handleAdminGetRoom(store))
	})
	return r, store, db
}

func adminLogin(t *testing.T, r http.Handler) *http.Cookie {
	t.Helper()
	body, _ := json.Marshal(AdminLoginRequest{Email: "ops@rangebet.local", Password: "hunter22"})
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("login: %d: %s", w.Code, w.Body.String())
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == adminCookieName {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestAdminLoginWrongPassword(t *testing.T) {
	r, _, _ := adminRouter(t)

	body, _ := json.Marshal(AdminLoginRequest{Email: "ops@rangebet.local", Password: "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("got %d, want 401", w.Code)
	}
}

func TestAdminRoomsRequiresAuth(t *testing.T) {
	r, _, _ := adminRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/rooms", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("got %d, want 401", w.Code)
	}
}

func TestAdminListAndGetRooms(t *testing.T) {
	r, store, _ := adminRouter(t)
	cookie := adminLogin(t, r)

	room := rangebet.NewRoom("host-1", time.Now())
	room.Players["p1"] = rangebet.Player{Name: "Ana", JoinedAt: 1}
	if err := store.CreateRoom(context.Background(), "AD01", room); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/rooms", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("list: %d: %s", w.Code, w.Body.String())
	}
	var rooms []AdminRoomSummary
	json.NewDecoder(w.Body).Decode(&rooms)
	if len(rooms) != 1 || rooms[0].Code != "AD01" || rooms[0].PlayerCount != 1 {
		t.Errorf("rooms = %+v", rooms)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/admin/rooms/AD01", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("detail: %d: %s", w.Code, w.Body.String())
	}
	var snap RoomStateResponse
	json.NewDecoder(w.Body).Decode(&snap)
	if snap.Code != "AD01" || snap.HostID != "host-1" {
		t.Errorf("detail = %+v", snap)
	}
}

func TestAdminSessionExpires(t *testing.T) {
	r, _, db := adminRouter(t)
	cookie := adminLogin(t, r)

	// Backdate the session past its TTL.
	_, err := db.Exec(`UPDATE admin_sessions SET created_at = ? WHERE id = ?`,
		sessionCutoff(time.Now().Add(-time.Minute)), cookie.Value)
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/me", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("me with expired session: %d, want 401", w.Code)
	}
}

func TestAdminLogout(t *testing.T) {
	r, _, _ := adminRouter(t)
	cookie := adminLogin(t, r)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/logout", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("logout: %d", w.Code)
	}

	// The old session is gone server-side.
	req = httptest.NewRequest(http.MethodGet, "/api/admin/me", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("me after logout: %d, want 401", w.Code)
	}
}
