// CPU relaxation hint for x86-64: emits the PAUSE instruction, ported from
// the teacher's ring24/relax_amd64.go.

//go:build amd64 && !noasm && !nocgo

package ring

/*
#ifdef __x86_64__
static inline void cpu_pause() {
    __asm__ __volatile__("pause" ::: "memory");
}
#else
#error "This file requires x86-64 architecture"
#endif
*/
import "C"

// cpuRelax hints to the processor that the caller is spin-waiting,
// improving SMT throughput and reducing power draw during idle polling.
//
//go:nosplit
//go:inline
func cpuRelax() {
	C.cpu_pause()
}
