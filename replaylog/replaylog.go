// Package replaylog writes the append-only, line-oriented replay log of
// spec §6: one record type tag per line, followed by a whitespace-separated
// key=value body. Every record type the simulator can emit is a method on
// Writer; sampling policy (1-in-100 ticks, 1-in-1000 PnL marks) lives with
// the caller, not here.
//
// Grounded on the teacher's syncharvester.go JSON usage for the CONFIG
// record's embedded blob, encoded with github.com/sugawarayuuta/sonnet
// exactly as the teacher decodes EthereumLog responses with it.
package replaylog

import (
	"bufio"
	"fmt"
	"io"

	"github.com/sugawarayuuta/sonnet"
)

// Writer appends replay-log lines to an underlying io.Writer, normally a
// backtest run's dedicated log file.
type Writer struct {
	w *bufio.Writer
}

// New wraps dst in a buffered Writer. Callers must call Flush (or Close, if
// dst implements io.Closer) when the run ends.
func New(dst io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(dst)}
}

// Flush drains any buffered bytes to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// Config writes the once-per-run CONFIG record: the configuration struct
// marshaled to JSON, the seed, and the input file's SHA-256 digest.
func (w *Writer) Config(cfg any, seed uint32, inputSHA256Hex string) error {
	blob, err := sonnet.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("replaylog: marshal config: %w", err)
	}
	_, err = fmt.Fprintf(w.w, "CONFIG json=%s seed=%d input_sha256=%s\n", blob, seed, inputSHA256Hex)
	return err
}

// MarketTick writes a sampled top-of-book snapshot.
func (w *Writer) MarketTick(tsNs int64, bid, ask float64, bidQty, askQty uint64) error {
	_, err := fmt.Fprintf(w.w, "MARKET_TICK ts=%d bid=%v ask=%v bidq=%d askq=%d\n", tsNs, bid, ask, bidQty, askQty)
	return err
}

// Signal writes a produced trading decision.
func (w *Writer) Signal(tsNs int64, shouldTrade bool, side string, strength float64, confTicks uint32, obi float64) error {
	_, err := fmt.Fprintf(w.w, "SIGNAL ts=%d should_trade=%t side=%s strength=%v conf_ticks=%d obi=%v\n",
		tsNs, shouldTrade, side, strength, confTicks, obi)
	return err
}

// OrderSubmit writes an order's submission.
func (w *Writer) OrderSubmit(tsNs int64, id uint64, side string, price float64, qty uint64) error {
	_, err := fmt.Fprintf(w.w, "ORDER_SUBMIT ts=%d id=%d side=%s price=%v qty=%d\n", tsNs, id, side, price, qty)
	return err
}

// OrderFill writes an order's fill.
func (w *Writer) OrderFill(tsNs int64, id uint64, price float64, qty uint64, latencyNs uint64) error {
	_, err := fmt.Fprintf(w.w, "ORDER_FILL ts=%d id=%d price=%v qty=%d latency_ns=%d\n", tsNs, id, price, qty, latencyNs)
	return err
}

// OrderCancel writes a non-fill removal.
func (w *Writer) OrderCancel(tsNs int64, id uint64, reason string) error {
	_, err := fmt.Fprintf(w.w, "ORDER_CANCEL ts=%d id=%d reason=%s\n", tsNs, id, reason)
	return err
}

// PnL writes a sampled realized/unrealized/position mark.
func (w *Writer) PnL(tsNs int64, realized, unrealized float64, position int64) error {
	_, err := fmt.Fprintf(w.w, "PNL ts=%d realized=%v unrealized=%v position=%d\n", tsNs, realized, unrealized, position)
	return err
}
