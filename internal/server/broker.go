package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"
)

// roomEvent is the payload delivered to room subscribers: the full current
// document after every committed write, mirroring the subscription
// semantics of a realtime document store.
type roomEvent struct {
	Code string            `json:"code"`
	Room RoomStateResponse `json:"room"`
}

const redisEventsChannel = "rangebet:room_events"

// Broker is an in-process pub/sub for room snapshots, keyed by room code.
// With a redis client attached, publishes travel through a shared channel so
// every server instance fans out the same snapshots to its local subscribers.
type Broker struct {
	logger *slog.Logger
	rdb    *redis.Client

	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker(logger *slog.Logger, rdb *redis.Client) *Broker {
	return &Broker{
		logger: logger,
		rdb:    rdb,
		subs:   make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded room snapshots for
// the given room code.
func (b *Broker) Subscribe(code string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[code] == nil {
		b.subs[code] = make(map[chan []byte]struct{})
	}
	b.subs[code][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the room's subscribers.
func (b *Broker) Unsubscribe(code string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[code], ch)
	if len(b.subs[code]) == 0 {
		delete(b.subs, code)
	}
	b.mu.Unlock()
}

// Publish sends the room snapshot to all subscribers of the room. When redis
// is configured the event goes through the shared channel and comes back via
// the bridge (including to this instance); otherwise it is delivered locally.
func (b *Broker) Publish(ctx context.Context, code string, snap RoomStateResponse) {
	data, err := json.Marshal(roomEvent{Code: code, Room: snap})
	if err != nil {
		b.logger.Error("encoding room event", "room", code, "error", err)
		return
	}
	if b.rdb != nil {
		if err := b.rdb.Publish(ctx, redisEventsChannel, data).Err(); err != nil {
			b.logger.Error("publishing room event", "room", code, "error", err)
		}
		return
	}
	b.deliver(code, data)
}

func (b *Broker) deliver(code string, data []byte) {
	b.mu.RLock()
	for ch := range b.subs[code] {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}

// RunBridge consumes the shared redis channel and re-delivers events to
// local subscribers. Blocks until ctx is done. No-op without redis.
func (b *Broker) RunBridge(ctx context.Context) error {
	if b.rdb == nil {
		<-ctx.Done()
		return nil
	}

	sub := b.rdb.Subscribe(ctx, redisEventsChannel)
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-sub.Channel():
			if !ok {
				return nil
			}
			var ev roomEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				b.logger.Error("discarding malformed room event", "error", err)
				continue
			}
			b.deliver(ev.Code, []byte(msg.Payload))
		}
	}
}
