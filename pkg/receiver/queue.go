package receiver

import (
	"sync/atomic"
	"time"
)

// LevelEdge is a raw level change captured by a pin interrupt.
type LevelEdge struct {
	At    time.Duration
	Level bool
}

// EdgeQueue is a fixed-capacity single-producer single-consumer ring.
// Push is called from the interrupt handler, Pop and Drain from the polling loop.
type EdgeQueue struct {
	buf  []LevelEdge
	mask uint32

	head    atomic.Uint32 // next slot to read
	tail    atomic.Uint32 // next slot to write
	dropped atomic.Uint32
}

// NewEdgeQueue creates a queue holding at least size edges. The capacity is
// rounded up to a power of two.
func NewEdgeQueue(size int) *EdgeQueue {
	n := 1
	for n < size {
		n <<= 1
	}
	return &EdgeQueue{buf: make([]LevelEdge, n), mask: uint32(n - 1)}
}

// Push appends an edge. When the queue is full the edge is dropped and counted.
func (q *EdgeQueue) Push(e LevelEdge) bool {
	tail := q.tail.Load()
	if tail-q.head.Load() == uint32(len(q.buf)) {
		q.dropped.Add(1)
		return false
	}
	q.buf[tail&q.mask] = e
	q.tail.Store(tail + 1)
	return true
}

// Pop removes the oldest edge.
func (q *EdgeQueue) Pop() (LevelEdge, bool) {
	head := q.head.Load()
	if head == q.tail.Load() {
		return LevelEdge{}, false
	}
	e := q.buf[head&q.mask]
	q.head.Store(head + 1)
	return e, true
}

// Drain feeds every queued edge to r in order and returns how many were consumed.
func (q *EdgeQueue) Drain(r *Receiver) int {
	var n int
	for {
		e, ok := q.Pop()
		if !ok {
			return n
		}
		r.Level(e.At, e.Level)
		n++
	}
}

// Len returns the number of queued edges.
func (q *EdgeQueue) Len() int {
	return int(q.tail.Load() - q.head.Load())
}

// Cap returns the queue capacity.
func (q *EdgeQueue) Cap() int {
	return len(q.buf)
}

// Dropped returns how many edges were lost to a full queue.
func (q *EdgeQueue) Dropped() uint32 {
	return q.dropped.Load()
}
