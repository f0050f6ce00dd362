package seed

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
)

// ForRound returns a deterministic RNG seed for a round using HMAC(salt, roundID).
// The same ID and salt always replay the same relaxed-mode choices.
func ForRound(roundID, salt string) int64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(roundID))
	sum := h.Sum(nil)
	// first 8 bytes, reinterpreted as signed for math/rand
	return int64(binary.BigEndian.Uint64(sum[:8]))
}

// Func binds a salt, giving the shape game.Options.Seed expects.
func Func(salt string) func(roundID string) int64 {
	return func(roundID string) int64 { return ForRound(roundID, salt) }
}
