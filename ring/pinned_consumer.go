package ring

import (
	"runtime"
	"time"
)

// hotWindow and spinBudget govern the adaptive polling strategy: stay in a
// tight spin while the producer is active or was recently active, then back
// off to a relaxed spin after spinBudget consecutive empty polls.
const (
	hotWindow  = 5 * time.Second
	spinBudget = 224
)

// PinnedConsumer launches a goroutine bound to a specific CPU core that
// drains ring, invoking handler for every popped payload, until *stop is
// non-zero. *hot lets the producer side keep the consumer in a tight spin
// during bursts of activity (spec §5: "the polling loop never sleeps, never
// yields").
func PinnedConsumer[T any](core int, r *Ring[T], stop *uint32, hot *uint32, handler func(*T), done chan<- struct{}) {
	go func() {
		runtime.LockOSThread()
		setAffinity(core)

		defer func() {
			runtime.UnlockOSThread()
			if done != nil {
				close(done)
			}
		}()

		var val T
		var miss int
		lastHit := time.Now()

		for {
			if *stop != 0 {
				return
			}

			if r.Pop(&val) {
				handler(&val)
				miss = 0
				lastHit = time.Now()
				continue
			}

			if *hot == 1 || time.Since(lastHit) <= hotWindow {
				continue
			}

			if miss++; miss >= spinBudget {
				miss = 0
				cpuRelax()
			}
		}
	}()
}
