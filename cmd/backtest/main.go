// Command backtest orchestrates one full run of the deterministic
// market-making simulator: load a historical-event CSV, reconstruct the
// book, replay it through the signal/quote/risk/sim pipeline, and emit the
// replay log, metrics CSVs, and a durable run record.
//
// Phased main() in the teacher's style (main.go's PHASE 0/1/2 structure):
// load → build engines → replay → emit.
package main

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/krish567366/submicro-execution-engine/book"
	"github.com/krish567366/submicro-execution-engine/config"
	"github.com/krish567366/submicro-execution-engine/control"
	"github.com/krish567366/submicro-execution-engine/debugx"
	"github.com/krish567366/submicro-execution-engine/hawkes"
	"github.com/krish567366/submicro-execution-engine/histcsv"
	"github.com/krish567366/submicro-execution-engine/metrics"
	"github.com/krish567366/submicro-execution-engine/quote"
	"github.com/krish567366/submicro-execution-engine/replaylog"
	"github.com/krish567366/submicro-execution-engine/risk"
	"github.com/krish567366/submicro-execution-engine/rundb"
	"github.com/krish567366/submicro-execution-engine/sim"
)

const (
	inputPath    = "data/historical_events.csv"
	replayPath   = "replay.log"
	totalCSV     = "total.csv"
	componentsCSV = "components.csv"
	rawSamplesCSV = "raw_samples.csv"
	runDBPath    = "runs.db"
)

func main() {
	// PHASE 0: load historical input.
	debugx.DropMessage("INIT", "loading historical event CSV")
	inputBytes, err := os.ReadFile(inputPath)
	if err != nil {
		debugx.DropError("INIT", err)
		os.Exit(1)
	}
	records, err := histcsv.Parse(bytes.NewReader(inputBytes))
	if err != nil {
		debugx.DropError("INIT", err)
		os.Exit(1)
	}
	debugx.DropMessage("LOADED", "parsed historical records")

	// PHASE 1: build the pipeline.
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		debugx.DropError("CONFIG", err)
		os.Exit(1)
	}

	ob := book.New()
	ob.InitializeFromSnapshot(nil, nil, 0)

	he := hawkes.New(hawkes.Params{MuBuy: 0.3, MuSell: 0.3, AlphaSelf: 0.15, AlphaCross: 0.05, Beta: 1e-3, Gamma: 1.3, MaxHistory: 4096})
	tf := hawkes.NewTemporalFilter()
	qe := quote.New(quote.Params{Gamma: 0.1, SigmaAnnual: 0.3, K: 1.5, Tick: 0.01, QMax: float64(cfg.MaxPosition) / 2})
	rg := risk.New(risk.Limits{MaxPosition: float64(cfg.MaxPosition), MaxNotional: cfg.InitialCapital * 10, MaxOrderSize: 500, AllowNakedShort: true})
	tracker := metrics.NewTracker()

	replayFile, err := os.Create(replayPath)
	if err != nil {
		debugx.DropError("INIT", err)
		os.Exit(1)
	}
	defer replayFile.Close()
	rw := replaylog.New(replayFile)

	s := sim.New(cfg, ob, he, tf, qe, rg, tracker, rw)
	if err := s.LogStartup(inputBytes); err != nil {
		debugx.DropError("RUN", err)
		os.Exit(1)
	}

	events := toEvents(records)

	// PHASE 2: replay. ForceHot pins the ingress activity flag before the
	// first event lands, matching the teacher's startup sequencing; Shutdown
	// sets the stop flag that ring.PinnedConsumer loops poll, and
	// ShutdownWG.Wait waits for any teardown registered on it. ring.PopWait
	// does not read the stop flag.
	control.ForceHot()
	debugx.DropMessage("RUN", "replaying historical events")
	runErr := s.Run(events)
	control.Shutdown()
	control.ShutdownWG.Wait()
	if runErr != nil {
		debugx.DropError("RUN", runErr)
		os.Exit(1)
	}

	// PHASE 3: emit metrics + durable run record.
	writeMetricsCSVs(s.StageStats())

	db, err := rundb.Open(runDBPath)
	if err != nil {
		debugx.DropError("RUNDB", err)
		os.Exit(1)
	}
	defer db.Close()

	inputSum := sha256.Sum256(inputBytes)
	configJSON, err := json.Marshal(cfg)
	if err != nil {
		debugx.DropError("RUNDB", err)
		configJSON = []byte("{}")
	}
	runID, err := db.InsertRun(rundb.RunRecord{
		ConfigJSON:    string(configJSON),
		Seed:          cfg.RandomSeed,
		InputSHA256:   hex.EncodeToString(inputSum[:]),
		FinalEquity:   cfg.InitialCapital + s.RealizedPnL(),
		MaxDrawdown:   tracker.MaxDrawdown(),
		Sharpe:        tracker.Sharpe(),
		Sortino:       tracker.Sortino(),
		TotalTrades:   tracker.TotalTrades(),
		WinningTrades: tracker.WinningTrades(),
		LosingTrades:  tracker.LosingTrades(),
	})
	if err != nil {
		debugx.DropError("RUNDB", err)
	}

	// PHASE 4: latency-sensitivity sweep (spec §4.8's "rerun with fresh
	// engines per latency point"), gated on cfg.RunLatencySweep.
	if cfg.RunLatencySweep && len(cfg.LatencySweepNs) > 0 {
		runSweep(cfg, events, db, runID)
	}

	debugx.DropMessage("DONE", "backtest run complete")
}

// runSweep reruns the full simulation once per cfg.LatencySweepNs entry,
// each against a fresh set of engines (per sim.RunLatencySweep's contract
// that state never leaks between sweep points), and persists each resulting
// point against the parent run via rundb.InsertSweepPoint.
func runSweep(cfg config.Config, events []sim.Event, db *rundb.DB, runID int64) {
	debugx.DropMessage("SWEEP", "running latency-sensitivity sweep")

	var sweepFiles []*os.File
	builders := sim.Builders{
		Book: func() *book.OrderBook {
			ob := book.New()
			ob.InitializeFromSnapshot(nil, nil, 0)
			return ob
		},
		Hawkes: func() *hawkes.Engine {
			return hawkes.New(hawkes.Params{MuBuy: 0.3, MuSell: 0.3, AlphaSelf: 0.15, AlphaCross: 0.05, Beta: 1e-3, Gamma: 1.3, MaxHistory: 4096})
		},
		Filter: hawkes.NewTemporalFilter,
		Quote: func() *quote.Engine {
			return quote.New(quote.Params{Gamma: 0.1, SigmaAnnual: 0.3, K: 1.5, Tick: 0.01, QMax: float64(cfg.MaxPosition) / 2})
		},
		Risk: func() *risk.Gate {
			return risk.New(risk.Limits{MaxPosition: float64(cfg.MaxPosition), MaxNotional: cfg.InitialCapital * 10, MaxOrderSize: 500, AllowNakedShort: true})
		},
		Replay: func(latencyNs int64) *replaylog.Writer {
			control.Reset()
			f, err := os.Create(fmt.Sprintf("replay.sweep.%d.log", latencyNs))
			if err != nil {
				debugx.DropError("SWEEP", err)
				return replaylog.New(io.Discard)
			}
			sweepFiles = append(sweepFiles, f)
			return replaylog.New(f)
		},
	}

	points, err := sim.RunLatencySweep(cfg, builders, events)
	for _, f := range sweepFiles {
		f.Close()
	}
	if err != nil {
		debugx.DropError("SWEEP", err)
		return
	}

	for _, p := range points {
		if err := db.InsertSweepPoint(runID, p.LatencyNs, p.FinalEquity, p.Sharpe); err != nil {
			debugx.DropError("SWEEP", err)
		}
	}
}

// toEvents converts parsed CSV rows into simulator events. seq only
// advances for book-update rows: it feeds book.Update.Seq, which the book
// checks against its own lastSequence+1 expectation, and trade rows never
// touch the book at all (book/book.go's ProcessUpdate is never called for
// them). Advancing it on every row — including trades — would desync it
// from the book's counter the moment a trade interleaves with book
// updates, triggering a permanent, unrecoverable gap.
func toEvents(records []histcsv.Record) []sim.Event {
	events := make([]sim.Event, 0, len(records))
	var seq uint64
	for _, r := range records {
		switch r.Type {
		case histcsv.EventTrade:
			events = append(events, sim.Event{
				TimestampNs:  r.TimestampNs,
				IsTrade:      true,
				TradeSide:    r.Side,
				TradeQty:     r.Size,
				SyntheticBid: r.SyntheticBid,
				SyntheticAsk: r.SyntheticAsk,
			})
		default:
			seq++
			events = append(events, sim.Event{
				TimestampNs:  r.TimestampNs,
				IsBookUpdate: true,
				Update: book.Update{
					Seq: seq, TS: r.TimestampNs, OrderID: r.OrderID,
					Side: r.Side, Kind: eventKindOf(r.Type), Price: r.Price, Quantity: r.Size,
				},
			})
		}
	}
	return events
}

func eventKindOf(t histcsv.EventType) book.UpdateKind {
	switch t {
	case histcsv.EventAdd, histcsv.EventSnapshot:
		return book.KindAdd
	case histcsv.EventModify:
		return book.KindModify
	case histcsv.EventCancel:
		return book.KindDelete
	default:
		return book.KindAdd
	}
}

// writeMetricsCSVs emits the three CSV contracts of spec §6 from the
// simulator's own per-stage timing (sim.Simulator.StageStats): signal,
// quote_risk, submit, and the end-to-end tick_to_trade total.
func writeMetricsCSVs(stages []*metrics.StageStats) {
	total := stages[len(stages)-1]

	if f, err := os.Create(totalCSV); err == nil {
		defer f.Close()
		_ = metrics.WriteTotalCSV(f, total)
	}
	if f, err := os.Create(componentsCSV); err == nil {
		defer f.Close()
		_ = metrics.WriteComponentsCSV(f, stages)
	}
	if f, err := os.Create(rawSamplesCSV); err == nil {
		defer f.Close()
		_ = metrics.WriteRawSamplesCSV(f, stages)
	}
}
