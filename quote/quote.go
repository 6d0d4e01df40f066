// Package quote implements the Avellaneda–Stoikov quote computation of
// spec §4.6: reservation price, inventory-skewed spread, latency-aware
// widening, and tick-rounded bid/ask output.
//
// Grounded on original_source/include/avellaneda_stoikov.hpp for the
// closed-form steps; expressed here as a plain struct over calibrated
// Params taking explicit inputs, per the Design Notes' "small variant over
// {Strategy, RiskPolicy} with configuration, not inheritance".
package quote

import "math"

// secondsPerTradingYear annualizes volatility the way spec §4.6 step 1
// specifies: 252 trading days × 6.5 trading hours × 3600 seconds.
const secondsPerTradingYear = 252 * 6.5 * 3600

// Params are the engine's calibrated constants.
type Params struct {
	Gamma      float64 // risk-aversion γ
	SigmaAnnual float64 // annualized volatility σ
	K          float64 // order-arrival decay k
	Tick       float64 // minimum price increment
	QMax       float64 // inventory normalization q_max
	BaseSize   float64 // base quote size (spec step 7: 100 units)
}

// Inputs are the per-quote market/inventory state.
type Inputs struct {
	Mid           float64
	Inventory     float64 // signed position q
	TimeRemaining float64 // T - t, in seconds
	LatencyNs     int64
	SigmaCurrent  float64 // current (not annualized) volatility, for latency-cost
}

// Quote is the engine's output. A no-quote result has ShouldQuote=false and
// zero prices/sizes (spec §4.6: invalid mid or time-remaining).
type Quote struct {
	Bid, Ask         float64
	BidSize, AskSize float64
	HalfSpread       float64
	LatencyCost      float64
	ShouldQuote      bool
}

// Engine computes quotes from Params plus per-call Inputs.
type Engine struct {
	p Params
}

// New returns an Engine over the given params. BaseSize defaults to 100
// (spec §4.6 step 7) if zero.
func New(p Params) *Engine {
	if p.BaseSize == 0 {
		p.BaseSize = 100
	}
	return &Engine{p: p}
}

// Compute runs the eight-step Avellaneda–Stoikov pipeline of spec §4.6.
func (e *Engine) Compute(in Inputs) Quote {
	if in.Mid <= 0 || in.TimeRemaining <= 0 {
		return Quote{}
	}
	p := e.p

	// Step 1: per-second volatility.
	sigmaS := p.SigmaAnnual / math.Sqrt(secondsPerTradingYear)
	sigmaS2 := sigmaS * sigmaS

	// Step 2: reservation price.
	r := in.Mid - in.Inventory*p.Gamma*sigmaS2*in.TimeRemaining

	// Step 3: base spread, floored at 2*tick.
	delta := p.Gamma*sigmaS2*in.TimeRemaining + (2/p.Gamma)*math.Log(1+p.Gamma/p.K)
	if floor := 2 * p.Tick; delta < floor {
		delta = floor
	}

	// Step 4: latency widening.
	latencyCost := computeLatencyCost(in.SigmaCurrent, in.LatencyNs, in.Mid)
	half := delta / 2
	if latencyCost > half {
		delta += 2 * (latencyCost - half)
		half = delta / 2
	}

	// Step 5: inventory skew.
	skew := math.Tanh(2 * in.Inventory / p.QMax)
	bidHalf := half * (1 - skew)
	askHalf := half * (1 + skew)

	// Step 6: round to tick, enforce bid < ask.
	bid := roundToTick(r-bidHalf, p.Tick)
	ask := roundToTick(r+askHalf, p.Tick)
	if bid >= ask {
		bid = ask - p.Tick
	}

	// Step 7: sizes — the inventory-reducing side gets a size multiplier.
	bidSize, askSize := p.BaseSize, p.BaseSize
	absQRatio := 1 + math.Abs(in.Inventory)/p.QMax
	if in.Inventory > 0 {
		// Long position: selling reduces inventory.
		askSize *= absQRatio
	} else if in.Inventory < 0 {
		bidSize *= absQRatio
	}

	q := Quote{
		Bid: bid, Ask: ask,
		BidSize: bidSize, AskSize: askSize,
		HalfSpread:  half,
		LatencyCost: latencyCost,
	}
	// Step 8: should_quote gate.
	q.ShouldQuote = half > 1.1*latencyCost
	return q
}

func roundToTick(price, tick float64) float64 {
	if tick <= 0 {
		return price
	}
	return math.Round(price/tick) * tick
}

// computeLatencyCost implements spec §4.6 step 8's latency-cost formula:
// L = σ_current * sqrt(latency_ns * 1e-9) * mid.
func computeLatencyCost(sigmaCurrent float64, latencyNs int64, mid float64) float64 {
	if latencyNs < 0 {
		latencyNs = 0
	}
	return sigmaCurrent * math.Sqrt(float64(latencyNs)*1e-9) * mid
}
