// Package dice rolls six-sided dice pairs from an injectable random source.
package dice

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"sync"
)

const (
	Sides = 6

	MinPairTotal = 2
	MaxPairTotal = 2 * Sides
)

// Pair - two dice rolled by one side.
type Pair [2]int

// Total - sum of both faces.
func (that Pair) Total() int {
	return that[0] + that[1]
}

// Source is the randomness provider for dice rolls.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
}

// RollPair - rolls two independent dice from the source.
func RollPair(src Source) Pair {
	return Pair{rollDie(src), rollDie(src)}
}

func rollDie(src Source) int {
	return src.Intn(Sides) + 1
}

// lockedSource wraps math/rand, which is not safe for concurrent use.
type lockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSource - returns a Source seeded with the given value.
func NewSource(seed int64) Source {
	return &lockedSource{
		rng: rand.New(rand.NewSource(seed)), //nolint: gosec // game dice, not crypto
	}
}

// NewRandomSource - returns a Source seeded from crypto/rand.
func NewRandomSource() (Source, error) {
	seed, err := NewSeed()
	if err != nil {
		return nil, err
	}

	return NewSource(seed), nil
}

func (that *lockedSource) Intn(n int) int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.rng.Intn(n)
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}
