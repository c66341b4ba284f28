package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/guessparty/rangebet/internal/rangebet"
)

// RoomStore keeps each room as a single JSONB document keyed by its code,
// alongside a revision counter used for compare-and-swap updates. The
// denormalized status column exists only for the admin listing.
type RoomStore struct {
	db *sql.DB
}

func NewRoomStore(db *sql.DB) *RoomStore {
	return &RoomStore{db: db}
}

func (s *RoomStore) GetRoom(ctx context.Context, code string) (rangebet.Room, int64, error) {
	var (
		data     string
		revision int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT json(data), revision FROM rooms WHERE code = ?
	`, code).Scan(&data, &revision)
	if errors.Is(err, sql.ErrNoRows) {
		return rangebet.Room{}, 0, ErrNotFound
	}
	if err != nil {
		return rangebet.Room{}, 0, storeFailure(err)
	}

	var room rangebet.Room
	if err := json.Unmarshal([]byte(data), &room); err != nil {
		return rangebet.Room{}, 0, fmt.Errorf("decoding room %s: %w", code, err)
	}
	if room.Players == nil {
		room.Players = map[string]rangebet.Player{}
	}
	return room, revision, nil
}

func (s *RoomStore) CreateRoom(ctx context.Context, code string, room rangebet.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("encoding room %s: %w", code, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO rooms (code, revision, status, data) VALUES (?, 1, ?, jsonb(?))
	`, code, string(room.Status), string(data))
	if err != nil {
		if isUniqueViolation(err) {
			return ErrRoomExists
		}
		return storeFailure(err)
	}
	return nil
}

func (s *RoomStore) UpdateRoom(ctx context.Context, code string, revision int64, room rangebet.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("encoding room %s: %w", code, err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE rooms
		SET data = jsonb(?), status = ?, revision = revision + 1
		WHERE code = ? AND revision = ?
	`, string(data), string(room.Status), code, revision)
	if err != nil {
		return storeFailure(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return storeFailure(err)
	}
	if n == 0 {
		// Either the room vanished or someone else committed first;
		// disambiguate so callers can retry only the latter.
		var exists int
		err := s.db.QueryRowContext(ctx, `SELECT 1 FROM rooms WHERE code = ?`, code).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return storeFailure(err)
		}
		return ErrRevisionConflict
	}
	return nil
}

func (s *RoomStore) ListRooms(ctx context.Context) ([]AdminRoomSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT code, status,
		       COALESCE(data ->> '$.round', 0),
		       (SELECT COUNT(*) FROM json_each(data, '$.players')),
		       created_at
		FROM rooms
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, storeFailure(err)
	}
	defer rows.Close()

	var out []AdminRoomSummary
	for rows.Next() {
		var r AdminRoomSummary
		if err := rows.Scan(&r.Code, &r.Status, &r.Round, &r.PlayerCount, &r.CreatedAt); err != nil {
			return nil, storeFailure(err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, storeFailure(err)
	}
	return out, nil
}

func storeFailure(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

// isUniqueViolation matches sqlite's primary-key conflict without depending
// on driver-specific error types.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "constraint violation")
}
