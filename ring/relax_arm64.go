// CPU relaxation hint for ARM64: emits the YIELD instruction, ported from
// the teacher's ring24/relax_arm64.go.

//go:build arm64 && !noasm && !nocgo

package ring

/*
#ifdef __aarch64__
static inline void cpu_yield() {
    __asm__ __volatile__("yield" ::: "memory");
}
#else
#error "This file requires ARM64 architecture"
#endif
*/
import "C"

//go:nosplit
//go:inline
func cpuRelax() {
	C.cpu_yield()
}
