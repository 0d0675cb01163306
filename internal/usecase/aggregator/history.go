package aggregator

import (
	v1 "github.com/MaheshUmale/orderflow/internal/domain/orderflow/v1"
)

// tickRing is a fixed-capacity circular buffer of validated ticks. The oldest
// tick is evicted once capacity is reached, so a replay is only lossless for
// history still resident in the ring.
//
// The ring is owned by the Aggregator and shares its single-goroutine
// discipline, so it carries no lock.
type tickRing struct {
	data []v1.Tick
	head int // index of the next write
	size int
}

func newTickRing(capacity int) *tickRing {
	return &tickRing{
		data: make([]v1.Tick, capacity),
	}
}

// Push inserts a tick, evicting the oldest when full. O(1).
func (r *tickRing) Push(t v1.Tick) {
	r.data[r.head] = t
	r.head = (r.head + 1) % len(r.data)
	if r.size < len(r.data) {
		r.size++
	}
}

// Snapshot returns a copy of the resident ticks in arrival order.
func (r *tickRing) Snapshot() []v1.Tick {
	if r.size == 0 {
		return nil
	}
	out := make([]v1.Tick, 0, r.size)
	if r.size < len(r.data) {
		out = append(out, r.data[:r.head]...)
	} else {
		// Full ring: head points at the oldest element.
		out = append(out, r.data[r.head:]...)
		out = append(out, r.data[:r.head]...)
	}
	return out
}

// Len returns the number of resident ticks.
func (r *tickRing) Len() int {
	return r.size
}

// Reset discards all resident ticks.
func (r *tickRing) Reset() {
	r.head = 0
	r.size = 0
}

// Resize changes the ring capacity, keeping the newest ticks that fit.
func (r *tickRing) Resize(capacity int) {
	if capacity == len(r.data) {
		return
	}
	resident := r.Snapshot()
	if len(resident) > capacity {
		resident = resident[len(resident)-capacity:]
	}
	r.data = make([]v1.Tick, capacity)
	r.head = 0
	r.size = 0
	for _, t := range resident {
		r.Push(t)
	}
}
