// Package dicetest provides scripted dice sources for tests.
package dicetest

import (
	"sync"
	"testing"

	"github.com/rocketscienceinc/dice-backend/internal/dice"
)

// Source replays a fixed sequence of die faces, cycling when exhausted.
type Source struct {
	mu    sync.Mutex
	faces []int
	next  int
}

// NewSource - returns a source that yields the given faces in order.
// The test fails immediately when faces is empty or a face is outside [1, dice.Sides].
func NewSource(tb testing.TB, faces ...int) *Source {
	tb.Helper()

	if len(faces) == 0 {
		tb.Fatalf("dicetest: at least one face is required")
		return nil
	}

	for i, face := range faces {
		if face < 1 || face > dice.Sides {
			tb.Fatalf("dicetest: face #%d is %d, want 1..%d", i, face, dice.Sides)
			return nil
		}
	}

	return &Source{faces: append([]int(nil), faces...)}
}

func (that *Source) Intn(n int) int {
	that.mu.Lock()
	defer that.mu.Unlock()

	face := that.faces[that.next%len(that.faces)]
	that.next++

	return (face - 1) % n
}
