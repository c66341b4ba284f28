// Package rangebet defines the core game types and the room state machine.
// It has zero external dependencies — everything here is pure Go.
//
// A room moves through waiting → betting → results, cycling betting/results
// once per round, and ends in finished after round 4. Only the host identity
// recorded at creation may advance phases. All transition methods mutate the
// receiver in place; persistence and fan-out are the caller's concern.
package rangebet

import (
	"errors"
	"sort"
	"time"
)

// Phase is the current stage of a room's lifecycle.
type Phase string

const (
	PhaseWaiting  Phase = "waiting"
	PhaseBetting  Phase = "betting"
	PhaseResults  Phase = "results"
	PhaseFinished Phase = "finished"
)

const (
	// MaxPlayers caps the lobby while the room is still waiting.
	MaxPlayers = 4

	// TotalRounds is the number of betting/results cycles per game.
	TotalRounds = 4

	// CodeLength is the length of a shareable room code.
	CodeLength = 4
)

var (
	ErrAlreadyStarted   = errors.New("game already started")
	ErrRoomFull         = errors.New("room is full")
	ErrNotHost          = errors.New("only the host may do this")
	ErrNotJoined        = errors.New("player has not joined this room")
	ErrWrongPhase       = errors.New("action not allowed in current phase")
	ErrBetAlreadyPlaced = errors.New("bet already placed this round")
	ErrDrawOutOfRange   = errors.New("drawn number outside current range")
)

// Range is the inclusive guess bounds for a round.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether n lies within the range, bounds included.
func (rg Range) Contains(n int) bool {
	return n >= rg.Min && n <= rg.Max
}

// rounds maps round number to its guess range. currentRange is derived from
// the round exclusively through this table.
var rounds = map[int]Range{
	1: {Min: 1, Max: 10},
	2: {Min: 11, Max: 25},
	3: {Min: 26, Max: 50},
	4: {Min: 51, Max: 100},
}

// RangeForRound returns the guess range for a round, and whether the round
// number is valid (1..TotalRounds).
func RangeForRound(round int) (Range, bool) {
	rg, ok := rounds[round]
	return rg, ok
}

// Player is one joined participant. JoinedAt is unix milliseconds, matching
// the wire document.
type Player struct {
	Name     string `json:"name"`
	JoinedAt int64  `json:"joinedAt"`
	Score    int    `json:"score"`
}

// Room is the single shared document describing one game session.
type Room struct {
	CreatedAt     int64             `json:"createdAt"`
	HostID        string            `json:"hostId"`
	Status        Phase             `json:"status"`
	Round         int               `json:"round,omitempty"`
	CurrentRange  *Range            `json:"currentRange,omitempty"`
	WinningNumber *int              `json:"winningNumber,omitempty"`
	Players       map[string]Player `json:"players"`
	Bets          map[string]int    `json:"bets,omitempty"`
}

// NewRoom creates a room in the waiting phase with no round data. The host
// is recorded but does not count as a player until they join.
func NewRoom(hostID string, now time.Time) Room {
	return Room{
		CreatedAt: now.UnixMilli(),
		HostID:    hostID,
		Status:    PhaseWaiting,
		Players:   map[string]Player{},
	}
}

// Join adds a player to the lobby. Allowed only while waiting. Rejoining
// with a known identity updates name and joinedAt but preserves the score.
func (r *Room) Join(playerID, name string, now time.Time) error {
	if r.Status != PhaseWaiting {
		return ErrAlreadyStarted
	}
	existing, known := r.Players[playerID]
	if !known && len(r.Players) >= MaxPlayers {
		return ErrRoomFull
	}
	score := 0
	if known {
		score = existing.Score
	}
	r.Players[playerID] = Player{
		Name:     name,
		JoinedAt: now.UnixMilli(),
		Score:    score,
	}
	return nil
}

// Start begins round 1. Host only, waiting only.
func (r *Room) Start(actorID string) error {
	if actorID != r.HostID {
		return ErrNotHost
	}
	if r.Status != PhaseWaiting {
		return ErrWrongPhase
	}
	r.beginRound(1)
	return nil
}

// PlaceBet records a player's guess for the current round. Bets are
// write-once per player per round; there is no overwrite path. The value is
// deliberately not range-checked here (the original never did), only the
// reveal draw is.
func (r *Room) PlaceBet(playerID string, value int) error {
	if r.Status != PhaseBetting {
		return ErrWrongPhase
	}
	if _, ok := r.Players[playerID]; !ok {
		return ErrNotJoined
	}
	if _, ok := r.Bets[playerID]; ok {
		return ErrBetAlreadyPlaced
	}
	if r.Bets == nil {
		r.Bets = map[string]int{}
	}
	r.Bets[playerID] = value
	return nil
}

// Reveal closes betting with the given drawn number and credits one point
// to every player whose bet matches it exactly. Ties all win; zero winners
// is fine. The caller draws the number so tests can force it. Host only,
// betting only. A reveal with zero bets recorded is permitted.
func (r *Room) Reveal(actorID string, drawn int) error {
	if actorID != r.HostID {
		return ErrNotHost
	}
	if r.Status != PhaseBetting {
		return ErrWrongPhase
	}
	if r.CurrentRange == nil || !r.CurrentRange.Contains(drawn) {
		return ErrDrawOutOfRange
	}
	for id, bet := range r.Bets {
		if bet != drawn {
			continue
		}
		p := r.Players[id]
		p.Score++
		r.Players[id] = p
	}
	r.WinningNumber = &drawn
	r.Status = PhaseResults
	return nil
}

// Advance moves from results to the next betting round, or to finished after
// the last round. Round never exceeds TotalRounds: the final advance leaves
// it at 4 and only flips the status. Host only, results only.
func (r *Room) Advance(actorID string) error {
	if actorID != r.HostID {
		return ErrNotHost
	}
	if r.Status != PhaseResults {
		return ErrWrongPhase
	}
	if r.Round+1 > TotalRounds {
		r.Status = PhaseFinished
		return nil
	}
	r.beginRound(r.Round + 1)
	return nil
}

func (r *Room) beginRound(round int) {
	rg, _ := RangeForRound(round)
	r.Status = PhaseBetting
	r.Round = round
	r.CurrentRange = &rg
	r.WinningNumber = nil
	r.Bets = map[string]int{}
}

// Winner returns the id of the top-scoring player once the game is finished.
// Ties are broken by earliest join time, then by smallest player id, so the
// result is deterministic. ok is false before the game finishes or when the
// room has no players.
func (r *Room) Winner() (playerID string, ok bool) {
	if r.Status != PhaseFinished || len(r.Players) == 0 {
		return "", false
	}
	ids := make([]string, 0, len(r.Players))
	for id := range r.Players {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := r.Players[ids[i]], r.Players[ids[j]]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.JoinedAt != b.JoinedAt {
			return a.JoinedAt < b.JoinedAt
		}
		return ids[i] < ids[j]
	})
	return ids[0], true
}
