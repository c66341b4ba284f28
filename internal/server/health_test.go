package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/guessparty/rangebet/internal/database"
)

func deadRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         "localhost:1",
		DialTimeout:  10 * time.Millisecond,
		ReadTimeout:  10 * time.Millisecond,
		WriteTimeout: 10 * time.Millisecond,
		MaxRetries:   0,
	})
}

func TestHandleHealth(t *testing.T) {
	// Real SQLite in-memory DB — lightweight, no mocks needed.
	db, err := database.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("opening db: %v", err)
	}
	defer db.Close()

	t.Run("sqlite ok no redis", func(t *testing.T) {
		h := handleHealth(slog.Default(), db, nil)
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rec := httptest.NewRecorder()
		h(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var checks map[string]struct {
			Status string `json:"status"`
		}
		json.NewDecoder(rec.Body).Decode(&checks)
		if checks["sqlite"].Status != "ok" {
			t.Errorf("sqlite = %q, want ok", checks["sqlite"].Status)
		}
		if _, present := checks["redis"]; present {
			t.Error("redis reported although not configured")
		}
	})

	t.Run("redis down", func(t *testing.T) {
		h := handleHealth(slog.Default(), db, deadRedis())
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rec := httptest.NewRecorder()
		h(rec, req)

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("status = %d, want 503", rec.Code)
		}

		var checks map[string]struct {
			Status string `json:"status"`
		}
		json.NewDecoder(rec.Body).Decode(&checks)
		if checks["redis"].Status != "error" {
			t.Errorf("redis = %q, want error", checks["redis"].Status)
		}
		if checks["sqlite"].Status != "ok" {
			t.Errorf("sqlite = %q, want ok", checks["sqlite"].Status)
		}
	})
}
