// CPU affinity via sched_setaffinity(2), routed through golang.org/x/sys/unix
// instead of the teacher's raw syscall.RawSyscall(SYS_SCHED_SETAFFINITY, ...)
// — same mechanism, but using the documented wrapper rather than a hand-
// rolled mask table.

//go:build linux

package ring

import "golang.org/x/sys/unix"

// setAffinity pins the calling OS thread to the given CPU core. Best-effort:
// errors are ignored, matching the teacher's fire-and-forget RawSyscall use,
// since affinity failures must never abort the hot path.
func setAffinity(cpu int) {
	if cpu < 0 {
		return
	}
	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	_ = unix.SchedSetaffinity(0, &set)
}
