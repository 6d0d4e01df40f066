package sim

import (
	"github.com/krish567366/submicro-execution-engine/book"
	"github.com/krish567366/submicro-execution-engine/config"
	"github.com/krish567366/submicro-execution-engine/hawkes"
	"github.com/krish567366/submicro-execution-engine/metrics"
	"github.com/krish567366/submicro-execution-engine/quote"
	"github.com/krish567366/submicro-execution-engine/replaylog"
	"github.com/krish567366/submicro-execution-engine/risk"
)

// SweepPoint is one latency-sensitivity-sweep result (spec §4.8, last
// paragraph).
type SweepPoint struct {
	LatencyNs   int64
	FinalEquity float64
	Sharpe      float64
}

// Builders groups the per-run constructors a sweep needs to rebuild a
// completely fresh engine set for each latency value — nothing is shared
// across sweep points, per spec §4.8 ("rebuilding the quote engine each
// time").
type Builders struct {
	Book   func() *book.OrderBook
	Hawkes func() *hawkes.Engine
	Filter func() *hawkes.TemporalFilter
	Quote  func() *quote.Engine
	Risk   func() *risk.Gate
	Replay func(latencyNs int64) *replaylog.Writer
}

// RunLatencySweep reruns the full simulation once per value in
// cfg.LatencySweepNs, with every engine rebuilt fresh for each point.
func RunLatencySweep(cfg config.Config, b Builders, events []Event) ([]SweepPoint, error) {
	points := make([]SweepPoint, 0, len(cfg.LatencySweepNs))

	for _, latencyNs := range cfg.LatencySweepNs {
		runCfg := cfg
		runCfg.SimulatedLatencyNs = latencyNs

		tracker := metrics.NewTracker()
		s := New(runCfg, b.Book(), b.Hawkes(), b.Filter(), b.Quote(), b.Risk(), tracker, b.Replay(latencyNs))

		if err := s.Run(events); err != nil {
			return points, err
		}

		points = append(points, SweepPoint{
			LatencyNs:   latencyNs,
			FinalEquity: runCfg.InitialCapital + s.RealizedPnL(),
			Sharpe:      tracker.Sharpe(),
		})
	}
	return points, nil
}
