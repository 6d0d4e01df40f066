// Package debugx is a zero-allocation cold-path logger, ported from the
// teacher's debug package. It is never called from the tick→quote hot path:
// only from setup, sequence-gap recovery, risk rejects, and run-boundary
// records such as the replay log's CONFIG line.
//
// It avoids fmt.Sprintf-style formatting, writing a simple
// "<prefix>: <message>\n" line directly through a buffered writer over
// os.Stderr.
package debugx

import (
	"bufio"
	"os"
	"sync"
)

var (
	mu  sync.Mutex
	out = bufio.NewWriter(os.Stderr)
)

// DropMessage logs a cold-path diagnostic: connection state changes,
// sequence-gap recovery, configuration echoes.
func DropMessage(prefix, message string) {
	mu.Lock()
	out.WriteString(prefix)
	out.WriteString(": ")
	out.WriteString(message)
	out.WriteByte('\n')
	out.Flush()
	mu.Unlock()
}

// DropError logs an error against a prefix, or just the prefix if err is
// nil (used as a cheap trace tag).
func DropError(prefix string, err error) {
	if err != nil {
		DropMessage(prefix, err.Error())
		return
	}
	DropMessage(prefix, "")
}
