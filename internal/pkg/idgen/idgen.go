// Package idgen produces unique identifiers that sort lexicographically in generation order.
package idgen

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// Generator hands out identifiers for new records.
// Implementations must be safe for concurrent use and must never fail.
type Generator interface {
	NewID() string
}

// Func adapts a plain function to the Generator interface.
type Func func() string

// NewID calls f.
func (f Func) NewID() string { return f() }

// Strategy names a supported identifier format.
type Strategy string

const (
	// StrategyULID produces 26-character Crockford base32 ULIDs.
	StrategyULID Strategy = "ulid"
	// StrategyUUIDv7 produces RFC 9562 version 7 UUIDs.
	StrategyUUIDv7 Strategy = "uuidv7"
)

// New returns the generator for the given strategy.
func New(s Strategy) (Generator, error) {
	switch s {
	case StrategyULID, "":
		return NewULID(), nil
	case StrategyUUIDv7:
		return UUIDv7{}, nil
	default:
		return nil, fmt.Errorf("unknown id strategy %q", s)
	}
}

// ULID generates monotonic ULIDs. Within one millisecond the random part is
// incremented instead of redrawn, so IDs from one generator never go backwards.
type ULID struct {
	mu      sync.Mutex
	now     func() time.Time
	entropy *ulid.MonotonicEntropy
	lastMS  uint64
}

// NewULID creates a ULID generator backed by crypto/rand and the wall clock.
func NewULID() *ULID {
	return NewULIDWithClock(time.Now, rand.Reader)
}

// NewULIDWithClock creates a ULID generator with an injected clock and entropy source.
func NewULIDWithClock(now func() time.Time, entropy io.Reader) *ULID {
	return &ULID{
		now:     now,
		entropy: ulid.Monotonic(entropy, 0),
	}
}

// NewID returns the next ULID as a string.
func (g *ULID) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := ulid.Timestamp(g.now())
	// 時計が巻き戻っても単調性を保つ
	if ms < g.lastMS {
		ms = g.lastMS
	}
	for {
		id, err := ulid.New(ms, g.entropy)
		if err == nil {
			g.lastMS = ms
			return id.String()
		}
		if !errors.Is(err, ulid.ErrMonotonicOverflow) {
			// エントロピー源が読めなくなったら crypto/rand に切り替える
			g.entropy = ulid.Monotonic(rand.Reader, 0)
			if ms > g.lastMS {
				continue
			}
		}
		// a fresh random part may sort below the last ID of this millisecond; move to the next one
		ms++
	}
}

// UUIDv7 generates time-ordered version 7 UUIDs.
type UUIDv7 struct{}

// NewID returns a new UUIDv7 in canonical lowercase form.
func (UUIDv7) NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}
