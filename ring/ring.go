// Package ring implements a single-producer/single-consumer lock-free ring
// buffer of power-of-two capacity, parameterized over a trivially-copyable
// payload type.
//
// It is the one cross-thread hand-off in the pipeline (spec §4.1, §5): a
// hardware poll loop (or the simulator's synthetic feeder) is the producer,
// the trading core is the consumer. Ported from the teacher's fixed-24-byte
// ring24.Ring; the C++-template-shaped "parameterize over payload" goal from
// the original source (compile_time_dispatch.hpp) is expressed here with a
// Go generic type parameter instead of a duplicated byte-array slot, which
// is the idiomatic translation the spec's Design Notes call for
// ("dispatch is compile-time, no virtual").
package ring

import (
	"sync/atomic"

	"github.com/krish567366/submicro-execution-engine/control"
)

// slot holds one payload plus a sequence number used for lock-free
// availability signaling between producer and consumer.
type slot[T any] struct {
	val T
	seq uint64
}

// Ring is a cache-line-isolated SPSC ring buffer over T.
//
// Producer and consumer cursors are kept on separate cache lines (padding
// fields below) to eliminate false sharing, mirroring the teacher's layout.
type Ring[T any] struct {
	_    [64]byte
	head uint64 // consumer cursor

	_    [56]byte
	tail uint64 // producer cursor

	_ [56]byte

	mask uint64
	step uint64
	buf  []slot[T]
}

// New creates a ring of the given power-of-two capacity. Panics (a
// construction-time failure, not a hot-path one) if size is not a positive
// power of two.
func New[T any](size int) *Ring[T] {
	if size <= 0 || size&(size-1) != 0 {
		panic("ring: size must be >0 and a power of two")
	}
	r := &Ring[T]{
		mask: uint64(size - 1),
		step: uint64(size),
		buf:  make([]slot[T], size),
	}
	for i := range r.buf {
		r.buf[i].seq = uint64(i)
	}
	return r
}

// Push enqueues val. Returns false iff the ring is full
// ((tail+1) mod N == head). One slot is always left unused so full and
// empty remain distinguishable by occupancy alone.
func (r *Ring[T]) Push(val T) bool {
	t := r.tail
	h := atomic.LoadUint64(&r.head)
	if t-h >= r.mask {
		return false
	}
	s := &r.buf[t&r.mask]
	if atomic.LoadUint64(&s.seq) != t {
		return false
	}
	s.val = val
	atomic.StoreUint64(&s.seq, t+1)
	atomic.StoreUint64(&r.tail, t+1)
	return true
}

// Pop dequeues the next available payload. Returns false iff the ring is
// empty (head == tail).
func (r *Ring[T]) Pop(out *T) bool {
	h := r.head
	s := &r.buf[h&r.mask]
	if atomic.LoadUint64(&s.seq) != h+1 {
		return false
	}
	*out = s.val
	atomic.StoreUint64(&s.seq, h+r.step)
	atomic.StoreUint64(&r.head, h+1)
	return true
}

// Peek is allowed on the consumer side only: it inspects the next element
// without advancing head.
func (r *Ring[T]) Peek(out *T) bool {
	h := r.head
	s := &r.buf[h&r.mask]
	if atomic.LoadUint64(&s.seq) != h+1 {
		return false
	}
	*out = s.val
	return true
}

// Size returns (tail - head) mod capacity, i.e. the current occupancy.
// Since Push reserves one slot, occupancy never reaches capacity, so the
// mask here is a bound, not a wraparound that could collide full with
// empty.
func (r *Ring[T]) Size() int {
	t := atomic.LoadUint64(&r.tail)
	h := atomic.LoadUint64(&r.head)
	return int((t - h) & r.mask)
}

// Capacity returns the ring's fixed power-of-two capacity.
func (r *Ring[T]) Capacity() int {
	return int(r.step)
}

// PopWait blocks the caller via active polling until a payload is
// available. Intended for a dedicated polling loop that never yields
// (spec §4.1's "bounded spin ingress variant"). Every successful Pop
// signals ingress activity; every miss polls the global cooldown so a
// pinned consumer idling on an empty ring eventually falls back to the
// cold polling cadence, mirroring the teacher's PinnedConsumerWithCooldown.
func (r *Ring[T]) PopWait(out *T) {
	for {
		if r.Pop(out) {
			control.SignalActivity()
			return
		}
		control.PollCooldown()
		cpuRelax()
	}
}
