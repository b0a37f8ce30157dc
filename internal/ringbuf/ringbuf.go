// Package ringbuf implements the single-producer/single-consumer byte queue
// that carries raw protocol bytes from the capture engine's producer context
// into the dispatcher loop. The producer mutates only the write cursor and
// the consumer only the read cursor, so no lock is needed; the typed atomics
// provide the value-before-cursor publication ordering.
package ringbuf

import (
	"errors"
	"sync/atomic"
)

var ErrCapacity = errors.New("ringbuf: capacity must be a power of two and at least 2")

// Buffer is a fixed-capacity lossy SPSC queue. One slot is sacrificed to
// distinguish full from empty, so a Buffer of size N holds N-1 bytes.
type Buffer struct {
	buf  []byte
	mask uint32

	head    atomic.Uint32 // write cursor, producer-owned
	tail    atomic.Uint32 // read cursor, consumer-owned
	dropped atomic.Uint32
}

// New allocates a Buffer with the given capacity, which must be a power of
// two no smaller than 2.
func New(capacity int) (*Buffer, error) {
	if capacity < 2 || capacity&(capacity-1) != 0 {
		return nil, ErrCapacity
	}
	return &Buffer{
		buf:  make([]byte, capacity),
		mask: uint32(capacity - 1),
	}, nil
}

// TryPush appends v and returns true, or returns false when the buffer is
// full. It never blocks and is the only method safe to call from the
// producer context. A rejected byte is counted in Dropped.
func (b *Buffer) TryPush(v byte) bool {
	head := b.head.Load()
	next := (head + 1) & b.mask
	if next == b.tail.Load() {
		b.dropped.Add(1)
		return false
	}
	b.buf[head] = v
	// The store below publishes the slot written above; the consumer must
	// never observe the advanced cursor with a stale value.
	b.head.Store(next)
	return true
}

// TryPop removes and returns the oldest byte. It never blocks and must only
// be called from the consumer context.
func (b *Buffer) TryPop() (byte, bool) {
	tail := b.tail.Load()
	if tail == b.head.Load() {
		return 0, false
	}
	v := b.buf[tail]
	b.tail.Store((tail + 1) & b.mask)
	return v, true
}

// Len reports the number of buffered bytes. Exact only from the consumer
// context; elsewhere it is a snapshot.
func (b *Buffer) Len() int {
	return int((b.head.Load() - b.tail.Load()) & b.mask)
}

// Cap reports the number of usable slots (capacity minus one).
func (b *Buffer) Cap() int {
	return len(b.buf) - 1
}

// Dropped reports how many pushes were rejected since the last Reset.
func (b *Buffer) Dropped() uint32 {
	return b.dropped.Load()
}

// Reset clears both cursors and the drop counter. The caller must guarantee
// the producer is inactive (interface not yet started, or the capture engine
// stopped) for the duration of the call; Reset itself cannot enforce that.
func (b *Buffer) Reset() {
	b.head.Store(0)
	b.tail.Store(0)
	b.dropped.Store(0)
}
