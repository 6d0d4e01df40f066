// Package config holds the simulator configuration recognized by the
// deterministic backtest harness (spec §6, "Simulator configuration").
// Validation happens once, when the caller runs Validate before building the
// pipeline, folding bad input into errs.ErrConfig — nothing downstream
// re-validates these fields.
package config

import (
	"fmt"

	"github.com/krish567366/submicro-execution-engine/errs"
)

// MinimumLatencyFloorNs is the simulator's enforced floor on submit-to-
// eligibility delay (spec §4.8). Configured latencies below this are
// clamped up, never down.
const MinimumLatencyFloorNs int64 = 550

// Config is the full set of options a backtest run is parameterized by.
type Config struct {
	SimulatedLatencyNs     int64
	InitialCapital         float64
	CommissionPerShare     float64
	MaxPosition            int64
	EnableSlippage         bool
	EnableAdverseSelection bool
	RandomSeed             uint32
	LatencySweepNs         []int64
	RunLatencySweep        bool
}

// Default returns a Config with conservative, spec-consistent defaults.
func Default() Config {
	return Config{
		SimulatedLatencyNs:     MinimumLatencyFloorNs,
		InitialCapital:         1_000_000,
		CommissionPerShare:     0.0005,
		MaxPosition:            10_000,
		EnableSlippage:         true,
		EnableAdverseSelection: true,
		RandomSeed:             42,
	}
}

// EffectiveLatencyNs applies the latency floor (spec §4.8): the effective
// submit-to-eligibility delay is max(SimulatedLatencyNs, 550).
func (c Config) EffectiveLatencyNs() int64 {
	if c.SimulatedLatencyNs < MinimumLatencyFloorNs {
		return MinimumLatencyFloorNs
	}
	return c.SimulatedLatencyNs
}

// Validate rejects parameters that make no sense as a backtest run,
// returning errs.ErrConfig wrapped with the offending field.
func (c Config) Validate() error {
	switch {
	case c.InitialCapital <= 0:
		return fmt.Errorf("%w: initial_capital must be > 0, got %v", errs.ErrConfig, c.InitialCapital)
	case c.MaxPosition <= 0:
		return fmt.Errorf("%w: max_position must be > 0, got %v", errs.ErrConfig, c.MaxPosition)
	case c.CommissionPerShare < 0:
		return fmt.Errorf("%w: commission_per_share must be >= 0, got %v", errs.ErrConfig, c.CommissionPerShare)
	}
	for _, l := range c.LatencySweepNs {
		if l < 0 {
			return fmt.Errorf("%w: latency_sweep_ns entries must be >= 0, got %v", errs.ErrConfig, l)
		}
	}
	return nil
}
