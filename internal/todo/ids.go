package todo

import (
	"math"
	"sync"
	"time"
)

// IDGenerator hands out task ids. Implementations must never return the same
// id twice.
type IDGenerator interface {
	Next() int64
}

// Sequence is a monotonic id generator. Ids look like millisecond timestamps
// so they sort alongside ids written by older versions, but two calls within
// the same millisecond still get distinct values.
type Sequence struct {
	mu    sync.Mutex
	last  int64
	clock func() time.Time
}

// NewSequence returns a generator whose first id is greater than floor.
func NewSequence(floor int64) *Sequence {
	return &Sequence{last: floor, clock: time.Now}
}

// SeedFrom returns a generator that will not collide with any id in tasks.
func SeedFrom(tasks []Task) *Sequence {
	var max int64
	for _, t := range tasks {
		if t.ID > max {
			max = t.ID
		}
	}
	return NewSequence(max)
}

// Next returns the next id. It panics once the int64 range is used up;
// stored ids are capped at 2^53-1 so that cannot happen through loading.
func (s *Sequence) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.clock().UnixMilli()
	if id <= s.last {
		if s.last == math.MaxInt64 {
			panic("todo: task id space exhausted")
		}
		id = s.last + 1
	}
	s.last = id
	return id
}
