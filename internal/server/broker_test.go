package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/guessparty/rangebet/internal/rangebet"
)

func TestBrokerPublishSubscribe(t *testing.T) {
	b := NewBroker(slog.Default(), nil)
	ctx := context.Background()

	ch := b.Subscribe("AB12")
	defer b.Unsubscribe("AB12", ch)

	other := b.Subscribe("CD34")
	defer b.Unsubscribe("CD34", other)

	snap := roomSnapshot("AB12", rangebet.NewRoom("host-1", time.Now()))
	b.Publish(ctx, "AB12", snap)

	select {
	case data := <-ch:
		var ev roomEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		if ev.Code != "AB12" || ev.Room.HostID != "host-1" {
			t.Errorf("event = %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}

	select {
	case <-other:
		t.Fatal("event leaked to another room's subscriber")
	default:
	}
}

func TestBrokerUnsubscribe(t *testing.T) {
	b := NewBroker(slog.Default(), nil)
	ctx := context.Background()

	ch := b.Subscribe("AB12")
	b.Unsubscribe("AB12", ch)

	b.Publish(ctx, "AB12", roomSnapshot("AB12", rangebet.NewRoom("h", time.Now())))

	select {
	case <-ch:
		t.Fatal("received after unsubscribe")
	default:
	}
}

func TestBrokerLogsFailedRedisPublish(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	b := NewBroker(logger, deadRedis())

	b.Publish(context.Background(), "AB12", roomSnapshot("AB12", rangebet.NewRoom("h", time.Now())))

	if !strings.Contains(buf.String(), "publishing room event") {
		t.Fatalf("failed publish left no log: %q", buf.String())
	}
}

func TestBrokerDropsSlowSubscriber(t *testing.T) {
	b := NewBroker(slog.Default(), nil)
	ctx := context.Background()

	ch := b.Subscribe("AB12")
	defer b.Unsubscribe("AB12", ch)

	snap := roomSnapshot("AB12", rangebet.NewRoom("h", time.Now()))

	// The channel buffers 16; the rest must be dropped, not block.
	done := make(chan struct{})
	go func() {
		for range 64 {
			b.Publish(ctx, "AB12", snap)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}
