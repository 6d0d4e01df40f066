// Package hawkes implements the multivariate Hawkes self-/cross-excitation
// intensity estimator with a power-law kernel (spec §4.4), plus the
// temporal persistence filter that suppresses fleeting alpha (spec §4.5).
//
// Grounded on original_source/include/hawkes_engine.hpp for the event-FIFO
// + full-recompute update rule, and on the Design Notes' instruction to
// canonicalize the one duplicated Hawkes variant the original repo carried.
package hawkes

import "math"

// Side of an order-flow event feeding the intensity estimator.
type Side uint8

const (
	SideBuy Side = iota
	SideSell
)

// Params are the estimator's calibrated constants (spec §3, §4.4).
type Params struct {
	MuBuy       float64 // μ_b baseline intensity, buy side
	MuSell      float64 // μ_s baseline intensity, sell side
	AlphaSelf   float64 // α_self same-side excitation weight
	AlphaCross  float64 // α_cross cross-side excitation weight
	Beta        float64 // β power-law offset, coerced > 0
	Gamma       float64 // γ decay exponent, coerced > 1
	MaxHistory  int     // bound on each side's event FIFO
}

// coerced returns Params with the spec §4.4 parameter-coercion rules
// applied: γ ≤ 1 → 1.5, β ≤ 0 → 1e-6.
func (p Params) coerced() Params {
	if p.Gamma <= 1 {
		p.Gamma = 1.5
	}
	if p.Beta <= 0 {
		p.Beta = 1e-6
	}
	if p.MaxHistory <= 0 {
		p.MaxHistory = 4096
	}
	return p
}

// lambdaFloor is the minimum intensity value spec §4.4 clamps to.
const lambdaFloor = 1e-10

type event struct {
	arrivalNs int64
	side      Side
}

// Engine holds the bounded event FIFOs and cached intensities of spec §3.
type Engine struct {
	params Params

	buyEvents  []event
	sellEvents []event

	lambdaBuy  float64
	lambdaSell float64
}

// New constructs an Engine with coerced parameters.
func New(p Params) *Engine {
	p = p.coerced()
	return &Engine{
		params:     p,
		buyEvents:  make([]event, 0, p.MaxHistory),
		sellEvents: make([]event, 0, p.MaxHistory),
		lambdaBuy:  clampLambda(p.MuBuy),
		lambdaSell: clampLambda(p.MuSell),
	}
}

func clampLambda(v float64) float64 {
	if v < lambdaFloor {
		return lambdaFloor
	}
	return v
}

// Update appends the event to its side's FIFO (evicting the oldest if at
// MaxHistory) and recomputes both intensities in full, per spec §4.4.
func (e *Engine) Update(arrivalNs int64, side Side) {
	ev := event{arrivalNs: arrivalNs, side: side}
	if side == SideBuy {
		e.buyEvents = appendBounded(e.buyEvents, ev, e.params.MaxHistory)
	} else {
		e.sellEvents = appendBounded(e.sellEvents, ev, e.params.MaxHistory)
	}
	e.lambdaBuy = e.intensityAt(arrivalNs, SideBuy)
	e.lambdaSell = e.intensityAt(arrivalNs, SideSell)
}

func appendBounded(fifo []event, ev event, max int) []event {
	fifo = append(fifo, ev)
	if len(fifo) > max {
		fifo = fifo[len(fifo)-max:]
	}
	return fifo
}

// intensityAt evaluates λ_s(t) per spec §4.4's kernel sum over both FIFOs.
func (e *Engine) intensityAt(t int64, side Side) float64 {
	var mu float64
	if side == SideBuy {
		mu = e.params.MuBuy
	} else {
		mu = e.params.MuSell
	}

	sum := mu
	sum += kernelSum(t, e.sameSideFIFO(side), e.params.AlphaSelf, e.params.Beta, e.params.Gamma)
	sum += kernelSum(t, e.otherSideFIFO(side), e.params.AlphaCross, e.params.Beta, e.params.Gamma)
	return clampLambda(sum)
}

func (e *Engine) sameSideFIFO(side Side) []event {
	if side == SideBuy {
		return e.buyEvents
	}
	return e.sellEvents
}

func (e *Engine) otherSideFIFO(side Side) []event {
	if side == SideBuy {
		return e.sellEvents
	}
	return e.buyEvents
}

func kernelSum(t int64, fifo []event, alpha, beta, gamma float64) float64 {
	var sum float64
	for _, ev := range fifo {
		dt := float64(t-ev.arrivalNs) / 1e9 // Δt in seconds
		if dt < 0 {
			continue
		}
		sum += alpha * math.Pow(beta+dt, -gamma)
	}
	return sum
}

// LambdaBuy returns the cached buy-side intensity from the last Update.
func (e *Engine) LambdaBuy() float64 { return e.lambdaBuy }

// LambdaSell returns the cached sell-side intensity from the last Update.
func (e *Engine) LambdaSell() float64 { return e.lambdaSell }

// IntensityImbalance returns (λ_b - λ_s)/(λ_b + λ_s), or 0 if the total is
// below 1e-10 (spec §4.4).
func (e *Engine) IntensityImbalance() float64 {
	total := e.lambdaBuy + e.lambdaSell
	if total < 1e-10 {
		return 0
	}
	return (e.lambdaBuy - e.lambdaSell) / total
}

// Predict evaluates λ at a future timestamp using the current history,
// without mutating engine state (spec §4.4's "predict variant").
func (e *Engine) Predict(atNs int64) (lambdaBuy, lambdaSell float64) {
	return e.intensityAt(atNs, SideBuy), e.intensityAt(atNs, SideSell)
}
