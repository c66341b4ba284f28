package server

import (
	"bufio"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/guessparty/rangebet/internal/rangebet"
)

func TestHandleEventsStream(t *testing.T) {
	store := setupStore(t)
	broker := NewBroker(slog.Default(), nil)
	seedRoom(t, store, "SE01", "host-1")

	r := chi.NewRouter()
	r.Get("/api/rooms/{code}/events", handleEvents(store, broker))

	srv := httptest.NewServer(r)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/rooms/SE01/events", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("Content-Type"); got != "text/event-stream" {
		t.Fatalf("content-type = %q", got)
	}

	reader := bufio.NewReader(resp.Body)

	// The current document arrives on connect.
	ev := readSSEEvent(t, reader)
	if ev.Code != "SE01" || ev.Room.Status != rangebet.PhaseWaiting {
		t.Fatalf("initial event = %+v", ev)
	}

	// A committed write is delivered to the open stream.
	room, rev, err := store.GetRoom(ctx, "SE01")
	if err != nil {
		t.Fatal(err)
	}
	if err := room.Join("p1", "Ana", time.Now()); err != nil {
		t.Fatal(err)
	}
	if err := store.UpdateRoom(ctx, "SE01", rev, room); err != nil {
		t.Fatal(err)
	}
	broker.Publish(ctx, "SE01", roomSnapshot("SE01", room))

	ev = readSSEEvent(t, reader)
	if _, ok := ev.Room.Players["p1"]; !ok {
		t.Fatalf("update event missing joined player: %+v", ev)
	}
}

func readSSEEvent(t *testing.T, reader *bufio.Reader) roomEvent {
	t.Helper()
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if data, ok := strings.CutPrefix(line, "data: "); ok {
			var ev roomEvent
			if err := json.Unmarshal([]byte(strings.TrimSpace(data)), &ev); err != nil {
				t.Fatalf("decode %q: %v", data, err)
			}
			return ev
		}
	}
}

// racingStore publishes a snapshot while the connect-time read is still in
// flight, so the write lands between that read and the first delivery.
type racingStore struct {
	Store
	broker *Broker
	code   string
	snap   RoomStateResponse
}

func (s *racingStore) GetRoom(ctx context.Context, code string) (rangebet.Room, int64, error) {
	room, rev, err := s.Store.GetRoom(ctx, code)
	s.broker.Publish(ctx, s.code, s.snap)
	return room, rev, err
}

func TestHandleEventsDeliversWriteDuringConnect(t *testing.T) {
	inner := setupStore(t)
	broker := NewBroker(slog.Default(), nil)
	seedRoom(t, inner, "RC01", "host-1")

	finished := rangebet.NewRoom("host-1", time.Now())
	finished.Status = rangebet.PhaseFinished
	store := &racingStore{
		Store:  inner,
		broker: broker,
		code:   "RC01",
		snap:   roomSnapshot("RC01", finished),
	}

	r := chi.NewRouter()
	r.Get("/api/rooms/{code}/events", handleEvents(store, broker))

	srv := httptest.NewServer(r)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/rooms/RC01/events", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)

	ev := readSSEEvent(t, reader)
	if ev.Room.Status != rangebet.PhaseWaiting {
		t.Fatalf("initial event = %+v", ev)
	}

	// The snapshot committed mid-connect must still reach the client.
	ev = readSSEEvent(t, reader)
	if ev.Room.Status != rangebet.PhaseFinished {
		t.Fatalf("mid-connect write not delivered, got %+v", ev)
	}
}

func TestHandleEventsUnknownRoom(t *testing.T) {
	store := setupStore(t)
	broker := NewBroker(slog.Default(), nil)

	r := chi.NewRouter()
	r.Get("/api/rooms/{code}/events", handleEvents(store, broker))

	req := httptest.NewRequest(http.MethodGet, "/api/rooms/XXXX/events", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("got %d, want 404", w.Code)
	}
}
