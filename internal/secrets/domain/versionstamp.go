package domain

import (
	"fmt"
	"strconv"
	"sync"
	"time"
)

// Stamp is an opaque version token for secret revisions: the upper 48 bits
// are the millisecond wallclock since epoch and the lower 16 bits are a
// per-millisecond counter. Lexicographic order of the hex form equals
// creation order within a process. Across processes collisions are possible;
// the content store's unique index rejects them and the caller retries.
type Stamp uint64

var (
	stampMu      sync.Mutex
	stampLastMs  int64
	stampCounter uint16
)

// NewStamp produces the next version stamp for the current wallclock.
func NewStamp() Stamp {
	stampMu.Lock()
	defer stampMu.Unlock()

	ms := time.Now().UnixMilli()
	if ms == stampLastMs {
		stampCounter++ // wraps at 65535 creates per ms; the store catches the collision
	} else {
		stampLastMs = ms
		stampCounter = 0
	}
	return Stamp(uint64(ms)<<16 | uint64(stampCounter))
}

// Hex serializes the stamp as 16 lowercase hex characters.
func (s Stamp) Hex() string {
	return fmt.Sprintf("%016x", uint64(s))
}

// Time returns the wallclock component of the stamp.
func (s Stamp) Time() time.Time {
	return time.UnixMilli(int64(s >> 16))
}

// ParseStamp parses the 16-character lowercase hex form of a stamp.
func ParseStamp(s string) (Stamp, error) {
	if len(s) != 16 {
		return 0, fmt.Errorf("version stamp must be 16 hex characters, got %d", len(s))
	}
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid version stamp %q: %w", s, err)
	}
	return Stamp(v), nil
}
