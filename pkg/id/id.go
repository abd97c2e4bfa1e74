// Package id mints the time-sortable identifiers the simulation hands
// out: one per order and one per journaled run. Lexicographic order
// matches creation order, which keeps journal indexes and event replays
// naturally sorted.
package id

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// minter serializes ULID generation; monotonic entropy keeps IDs created
// within the same millisecond strictly increasing.
type minter struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func (m *minter) next() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now().UTC()), m.entropy).String()
}

var ids = &minter{entropy: ulid.Monotonic(rand.Reader, 0)}

// Order returns a fresh order identifier.
func Order() string { return ids.next() }

// Run returns a fresh run identifier for journal keys.
func Run() string { return ids.next() }
