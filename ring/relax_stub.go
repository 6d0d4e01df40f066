// Fallback no-op cpuRelax for architectures without a dedicated spin-wait
// hint, or when cgo/asm is disabled, ported from ring24/relax_stub.go.

//go:build (!amd64 && !arm64) || noasm || nocgo

package ring

//go:nosplit
//go:inline
func cpuRelax() {}
