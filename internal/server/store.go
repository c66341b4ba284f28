package server

import (
	"context"
	"errors"

	"github.com/guessparty/rangebet/internal/rangebet"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrRoomExists       = errors.New("room code already taken")
	ErrRevisionConflict = errors.New("room was modified concurrently")

	// ErrStoreUnavailable tags database failures, as opposed to outcomes
	// of the game rules; handlers answer 503 so clients know to retry.
	ErrStoreUnavailable = errors.New("room store unavailable")
)

// AdminRoomSummary is one row of the admin room listing.
type AdminRoomSummary struct {
	Code        string `json:"code"`
	Status      string `json:"status"`
	Round       int    `json:"round"`
	PlayerCount int    `json:"playerCount"`
	CreatedAt   string `json:"createdAt"`
}

// Store persists room documents. Every write of an existing room is a
// compare-and-swap on the document revision, so two clients racing on the
// same transition cannot silently overwrite each other: the loser gets
// ErrRevisionConflict and must re-read.
type Store interface {
	GetRoom(ctx context.Context, code string) (rangebet.Room, int64, error)
	CreateRoom(ctx context.Context, code string, room rangebet.Room) error
	UpdateRoom(ctx context.Context, code string, revision int64, room rangebet.Room) error
	ListRooms(ctx context.Context) ([]AdminRoomSummary, error)
}

// transitionAttempts bounds the get→mutate→CAS loop. Conflicts are rare
// (a host double-tap, two players betting in the same instant), so a
// couple of retries is plenty.
const transitionAttempts = 3

// transitionRoom applies fn to the current room document and commits it
// with a revision check, retrying on conflict. fn runs against a fresh read
// each attempt, so phase guards re-evaluate against whatever the winning
// writer committed — a duplicated reveal fails its phase check instead of
// crediting scores twice.
func transitionRoom(ctx context.Context, store Store, code string, fn func(*rangebet.Room) error) (rangebet.Room, error) {
	var lastErr error
	for range transitionAttempts {
		room, revision, err := store.GetRoom(ctx, code)
		if err != nil {
			return rangebet.Room{}, err
		}
		if err := fn(&room); err != nil {
			return rangebet.Room{}, err
		}
		err = store.UpdateRoom(ctx, code, revision, room)
		if err == nil {
			return room, nil
		}
		if !errors.Is(err, ErrRevisionConflict) {
			return rangebet.Room{}, err
		}
		lastErr = err
	}
	return rangebet.Room{}, lastErr
}
