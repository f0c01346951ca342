package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Generator produces opaque identifiers for things that cross process
// boundaries, such as sync run ids surfaced in reports and logs.
type Generator interface {
	NewID() (string, error)
}

// RandomGenerator draws 12 random bytes per id, hex encoded. Collisions are
// not a practical concern at sync-run frequency.
type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

func (g *RandomGenerator) NewID() (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
