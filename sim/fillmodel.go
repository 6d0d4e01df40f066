package sim

import (
	"math"

	"github.com/krish567366/submicro-execution-engine/book"
)

// Fill-model constants, spec §4.8.
const (
	fillBase           = 0.70
	fillDecay          = 0.15
	fillSpreadSens     = 0.05
	fillVolImpact      = 0.10
	fillLatencyPenalty = 0.001 // per microsecond
	fillAdverseFactor  = 0.20  // multiplier applied is (1 - this)
	fillOutsideTopMult = 0.1
)

// runFillChecks evaluates every active order whose submit age has reached
// the configured latency floor, removing each from the active set after
// exactly one fill/cancel decision (spec §4.8 step 5, §5 "no re-queuing").
func (s *Simulator) runFillChecks(nowNs int64) {
	floor := s.cfg.EffectiveLatencyNs()
	remaining := s.active[:0]
	for _, o := range s.active {
		age := nowNs - o.submitTsNs
		if age < floor {
			remaining = append(remaining, o)
			continue
		}
		s.resolveFill(o, nowNs, age)
	}
	s.active = remaining
}

// resolveFill runs the probabilistic fill check for one order and either
// fills it at its submitted price (optionally slippage-adjusted) or cancels
// it, per spec §4.8's fill model.
func (s *Simulator) resolveFill(o *order, nowNs int64, ageNs int64) {
	bid, bidOK, ask, askOK := s.book.TopOfBook()
	if !bidOK || !askOK {
		s.cancel(o, nowNs, "no_top_of_book")
		return
	}

	p := s.fillProbability(o, nowNs, ageNs, bid, ask)

	if s.rng.Float64() >= p {
		s.cancel(o, nowNs, "no_fill")
		return
	}
	s.fill(o, nowNs)
}

func (s *Simulator) fillProbability(o *order, nowNs, ageNs int64, bid, ask book.BookLevel) float64 {
	// Price-aggressiveness short-circuit: at-or-through the opposite top
	// fills with certainty; outside the opposite top is heavily discounted.
	switch o.side {
	case book.SideBid:
		if o.price >= ask.Price {
			return 1
		}
	case book.SideAsk:
		if o.price <= bid.Price {
			return 1
		}
	}

	mid := (bid.Price + ask.Price) / 2
	spread := ask.Price - bid.Price
	var spreadBps float64
	if mid > 0 {
		spreadBps = spread / mid * 10000
	}

	queuePos := o.visibleSizeAtSubmit / 2
	latencyUs := float64(ageNs) / 1000

	adverse := 1.0
	if s.cfg.EnableAdverseSelection && movedAgainst(o.side, o.submitMid, mid) {
		adverse = 1 - fillAdverseFactor
	}

	p := fillBase *
		math.Exp(-fillDecay*queuePos) *
		math.Exp(-fillSpreadSens*spreadBps) *
		math.Exp(-fillVolImpact*sigmaCurrentProxy) *
		math.Exp(-fillLatencyPenalty*latencyUs) *
		adverse

	outsideTop := (o.side == book.SideBid && o.price < bid.Price) || (o.side == book.SideAsk && o.price > ask.Price)
	if outsideTop {
		p *= fillOutsideTopMult
	}
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	return p
}

// sigmaCurrentProxy mirrors the per-tick volatility used by the quote
// engine's latency-cost term; the fill model shares the same proxy rather
// than estimating its own.
const sigmaCurrentProxy = 0.0002

func movedAgainst(side book.Side, submitMid, currentMid float64) bool {
	if side == book.SideBid {
		return currentMid < submitMid
	}
	return currentMid > submitMid
}

func (s *Simulator) fill(o *order, nowNs int64) {
	bid, bidOK, ask, askOK := s.book.TopOfBook()
	price := o.price

	if s.cfg.EnableSlippage && bidOK && askOK {
		visible := o.visibleSizeAtSubmit
		if visible > 0 {
			mid := (bid.Price + ask.Price) / 2
			slip := 0.5 * math.Sqrt(o.qty/visible) * mid / 10000
			if o.side == book.SideBid {
				price += slip
			} else {
				price -= slip
			}
		}
	}

	commission := o.qty * s.cfg.CommissionPerShare
	signed := o.qty
	if o.side == book.SideAsk {
		signed = -signed
	}
	s.position += int64(signed)

	tradePnL := -signed * price - commission
	s.realizedPnL += tradePnL
	s.tracker.RecordTrade(tradePnL)

	latencyNs := uint64(nowNs - o.submitTsNs)
	_ = s.replay.OrderFill(nowNs, o.id, price, uint64(o.qty), latencyNs)
}

func (s *Simulator) cancel(o *order, nowNs int64, reason string) {
	s.counters.FillTimeout++
	_ = s.replay.OrderCancel(nowNs, o.id, reason)
}
