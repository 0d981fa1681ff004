// Package idgen issues note identifiers.
package idgen

import (
	"sync"
	"time"
)

// Generator issues ids that are unique for the lifetime of the process.
type Generator interface {
	NextID() int64
}

// Clock derives ids from wall-clock milliseconds. When the clock has not
// advanced since the last call the previous id is bumped by one.
type Clock struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

// NewClock returns a Clock reading time.Now.
func NewClock() *Clock {
	return &Clock{now: time.Now}
}

// NextID implements Generator.
func (c *Clock) NextID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.now().UnixMilli()
	if id <= c.last {
		id = c.last + 1
	}
	c.last = id
	return id
}

// Sequence is a deterministic counter.
type Sequence struct {
	mu   sync.Mutex
	next int64
}

// NewSequence returns a Sequence whose first id is start.
func NewSequence(start int64) *Sequence {
	return &Sequence{next: start}
}

// NextID implements Generator.
func (s *Sequence) NextID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.next
	s.next++
	return id
}
