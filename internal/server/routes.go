package server

import (
	"database/sql"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/swaggest/swgui/v5emb"

	"github.com/guessparty/rangebet/internal/rangebet"
)

func addRoutes(r chi.Router, logger *slog.Logger, db *sql.DB, rdb *redis.Client, broker *Broker, spaDir string) {
	store := NewRoomStore(db)

	// The drawn number for a reveal; the handler tests swap in a fixed draw.
	draw := func(rg rangebet.Range) int {
		return rg.Min + rand.IntN(rg.Max-rg.Min+1)
	}

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("RangeBet API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, db, rdb))
	r.Get("/ws/rooms/{code}", handleRoomFeed(logger, store, broker))

	r.Route("/api/rooms", func(r chi.Router) {
		r.Post("/", handleCreateRoom(store))
		r.Route("/{code}", func(r chi.Router) {
			r.Get("/", handleRoomState(store))
			r.Get("/events", handleEvents(store, broker))
			r.Post("/join", handleJoin(store, broker))
			r.Post("/start", handleStart(store, broker))
			r.Post("/bets", handleBet(store, broker))
			r.Post("/reveal", handleReveal(store, broker, draw))
			r.Post("/advance", handleAdvance(store, broker))
		})
	})

	// Admin — read-only operations view, cookie-session auth.
	r.Post("/api/admin/login", handleAdminLogin(logger, db))
	r.Post("/api/admin/logout", handleAdminLogout(db))
	r.Get("/api/admin/me", handleAdminMe(db))
	r.Route("/api/admin/rooms", func(r chi.Router) {
		r.Use(adminAuthMiddleware(db))
		r.Get("/", handleAdminListRooms(store))
		r.Get("/{code}", handleAdminGetRoom(store))
	})

	if spaDir != "" {
		if info, err := os.Stat(spaDir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", spaDir)
			r.NotFound(handleSPA(spaDir))
		}
	}
}
