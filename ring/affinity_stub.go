// Non-Linux fallback: CPU pinning is unavailable, so setAffinity is a no-op.
// The consumer still runs correctly, just without core isolation.

//go:build !linux

package ring

func setAffinity(cpu int) {}
