package server

import (
	"errors"
	"math/rand/v2"
	"strings"

	"github.com/guessparty/rangebet/internal/rangebet"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var errBadCode = errors.New("malformed room code")

// newRoomCode draws a 4-character code uniformly over A-Z0-9. Collisions are
// handled by the caller regenerating against the store; no pre-reservation.
func newRoomCode() string {
	var b strings.Builder
	b.Grow(rangebet.CodeLength)
	for range rangebet.CodeLength {
		b.WriteByte(codeAlphabet[rand.IntN(len(codeAlphabet))])
	}
	return b.String()
}

// normalizeCode upper-cases a client-supplied code and validates its shape.
// Codes are case-insensitive on the way in, always stored upper-case.
func normalizeCode(raw string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if len(code) != rangebet.CodeLength {
		return "", errBadCode
	}
	for i := 0; i < len(code); i++ {
		if !strings.ContainsRune(codeAlphabet, rune(code[i])) {
			return "", errBadCode
		}
	}
	return code, nil
}
