package decoder

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

// descriptor mirrors one entry of a memory-mapped NIC descriptor ring: a
// buffer pointer/length pair plus a hardware-written "done" bit. Flags bit 0
// is the done bit; bit 1 (EOP) marks end-of-packet on the TX side.
type descriptor struct {
	offset uint32 // byte offset of this slot's buffer within the ring's buffer region
	length uint32
	flags  uint32
	_      uint32
}

const (
	flagDone = 1 << 0
	flagEOP  = 1 << 1
)

const (
	slotBufSize = 2048 // per-slot packet buffer capacity
)

// DescriptorRing models one direction (RX or TX) of a memory-mapped NIC
// ring per spec §4.2: a hardware-written ring of fixed-size descriptors, a
// software head/tail, and control registers. It owns one anonymous mmap
// region for the descriptor array and another for the packet buffers,
// scoped to the ring's lifetime (spec §9: driver exclusively owns its rings
// and buffers; Close unmaps in reverse acquisition order).
type DescriptorRing struct {
	capacity int
	mask     uint32

	descMem []byte
	bufMem  []byte
	descs   []descriptor

	swHead uint32 // software-owned cursor
	swTail uint32

	// hwHead/hwTail emulate the control registers a real NIC would expose;
	// in this software model the "hardware" side is whatever test code or
	// the simulator's feeder calls Produce (RX) or drains via DrainTX (TX).
	hwHead uint32
	hwTail uint32
}

// NewDescriptorRing allocates a descriptor ring of the given power-of-two
// capacity, backed by two anonymous mmap regions.
func NewDescriptorRing(capacity int) (*DescriptorRing, error) {
	if capacity <= 0 || capacity&(capacity-1) != 0 {
		return nil, fmt.Errorf("decoder: descriptor ring capacity must be a positive power of two, got %d", capacity)
	}

	descBytes := capacity * int(unsafe.Sizeof(descriptor{}))
	descMem, err := unix.Mmap(-1, 0, descBytes, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, fmt.Errorf("decoder: mmap descriptor region: %w", err)
	}

	bufBytes := capacity * slotBufSize
	bufMem, err := unix.Mmap(-1, 0, bufBytes, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		_ = unix.Munmap(descMem)
		return nil, fmt.Errorf("decoder: mmap buffer region: %w", err)
	}

	descs := unsafe.Slice((*descriptor)(unsafe.Pointer(&descMem[0])), capacity)
	for i := range descs {
		descs[i].offset = uint32(i * slotBufSize)
	}

	return &DescriptorRing{
		capacity: capacity,
		mask:     uint32(capacity - 1),
		descMem:  descMem,
		bufMem:   bufMem,
		descs:    descs,
	}, nil
}

// Close unmaps both regions in reverse acquisition order. Safe to call once;
// the ring must not be used afterward.
func (r *DescriptorRing) Close() error {
	if err := unix.Munmap(r.bufMem); err != nil {
		return err
	}
	return unix.Munmap(r.descMem)
}

// Produce is the "hardware" side of an RX ring: it writes a frame into the
// next slot, marks it done, and advances the hardware tail register. This
// stands in for whatever DMA engine a real NIC would run; spec §4.2 only
// specifies the poll/submit contract the driver observes, not how frames
// physically arrive.
func (r *DescriptorRing) Produce(frame []byte) error {
	if len(frame) > slotBufSize {
		return fmt.Errorf("decoder: frame of %d bytes exceeds slot capacity %d", len(frame), slotBufSize)
	}
	slot := r.hwTail & r.mask
	d := &r.descs[slot]
	copy(r.bufMem[d.offset:d.offset+uint32(slotBufSize)], frame)
	d.length = uint32(len(frame))
	atomic.StoreUint32(&d.flags, flagDone)
	r.hwTail++
	return nil
}

// Poll implements spec §4.2's poll contract:
//  1. Read hardware head (here: hwTail, since RX descriptors become ready
//     as the "hardware" advances its tail). If equal to software head,
//     return empty.
//  2. Inspect the descriptor at software head; if the done bit is clear,
//     return empty.
//  3. Expose buffer pointer + length, clear done, advance software head,
//     publish it as the new hardware tail register value.
func (r *DescriptorRing) Poll() ([]byte, bool) {
	if atomic.LoadUint32(&r.hwTail) == r.swHead {
		return nil, false
	}
	d := &r.descs[r.swHead&r.mask]
	if atomic.LoadUint32(&d.flags)&flagDone == 0 {
		return nil, false
	}
	buf := r.bufMem[d.offset : d.offset+d.length]
	atomic.StoreUint32(&d.flags, 0)
	r.swHead++
	atomic.StoreUint32(&r.hwHead, r.swHead)
	return buf, true
}

// Submit is the driver's TX path: copy payload into the next slot,
// write the descriptor (offset/length plus EOP), advance software tail and
// publish it as the hardware tail register, matching spec §4.2's symmetric
// submission contract. Returns false if the ring is full.
func (r *DescriptorRing) Submit(payload []byte) bool {
	if r.swTail-r.hwHead >= uint32(r.capacity) {
		return false
	}
	if len(payload) > slotBufSize {
		return false
	}
	slot := r.swTail & r.mask
	d := &r.descs[slot]
	copy(r.bufMem[d.offset:d.offset+uint32(slotBufSize)], payload)
	d.length = uint32(len(payload))
	atomic.StoreUint32(&d.flags, flagDone|flagEOP)
	r.swTail++
	// A release fence follows every TX-ring kick (spec §4.2); the atomic
	// store above already provides release semantics on this platform.
	atomic.StoreUint32(&r.hwTail, r.swTail)
	return true
}

// DrainTX is the "hardware" side draining submitted TX descriptors, used by
// tests and the simulator's loopback harness.
func (r *DescriptorRing) DrainTX() ([]byte, bool) {
	if r.hwHead == atomic.LoadUint32(&r.hwTail) {
		return nil, false
	}
	d := &r.descs[r.hwHead&r.mask]
	buf := make([]byte, d.length)
	copy(buf, r.bufMem[d.offset:d.offset+d.length])
	atomic.StoreUint32(&d.flags, 0)
	r.hwHead++
	return buf, true
}
