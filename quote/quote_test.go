package quote

import "testing"

func defaultParams() Params {
	return Params{Gamma: 0.1, SigmaAnnual: 0.3, K: 1.5, Tick: 0.01, QMax: 500}
}

func TestQuoteOrderingAndTickRounding(t *testing.T) {
	e := New(defaultParams())
	q := e.Compute(Inputs{Mid: 100, Inventory: 0, TimeRemaining: 3600, SigmaCurrent: 0.0002, LatencyNs: 600})

	if q.Bid >= q.Ask {
		t.Fatalf("bid must be strictly below ask: bid=%v ask=%v", q.Bid, q.Ask)
	}
	if remainder := remainder(q.Bid, defaultParams().Tick); remainder > 1e-9 {
		t.Fatalf("bid not tick-aligned: %v", q.Bid)
	}
	if remainder := remainder(q.Ask, defaultParams().Tick); remainder > 1e-9 {
		t.Fatalf("ask not tick-aligned: %v", q.Ask)
	}
}

func TestNoQuoteOnInvalidMid(t *testing.T) {
	e := New(defaultParams())
	q := e.Compute(Inputs{Mid: 0, TimeRemaining: 3600})
	if q != (Quote{}) {
		t.Fatalf("expected zero quote for non-positive mid, got %+v", q)
	}
}

func TestNoQuoteOnNonPositiveTimeRemaining(t *testing.T) {
	e := New(defaultParams())
	q := e.Compute(Inputs{Mid: 100, TimeRemaining: 0})
	if q != (Quote{}) {
		t.Fatalf("expected zero quote for zero time remaining, got %+v", q)
	}
}

func TestInventorySkewShiftsReservationPrice(t *testing.T) {
	e := New(defaultParams())
	flat := e.Compute(Inputs{Mid: 100, Inventory: 0, TimeRemaining: 3600, SigmaCurrent: 0.0001})
	long := e.Compute(Inputs{Mid: 100, Inventory: 200, TimeRemaining: 3600, SigmaCurrent: 0.0001})

	if long.Bid >= flat.Bid {
		t.Fatalf("long inventory should skew bid down: flatBid=%v longBid=%v", flat.Bid, long.Bid)
	}
	if long.AskSize <= flat.AskSize {
		t.Fatalf("long inventory should enlarge ask size to reduce inventory: flat=%v long=%v", flat.AskSize, long.AskSize)
	}
}

func TestShouldQuoteFalseUnderHighLatency(t *testing.T) {
	e := New(defaultParams())
	q := e.Compute(Inputs{Mid: 100, TimeRemaining: 3600, SigmaCurrent: 5.0, LatencyNs: 1_000_000_000})
	if q.ShouldQuote {
		t.Fatalf("expected should_quote=false when latency cost dominates half-spread")
	}
}

func remainder(price, tick float64) float64 {
	scaled := price / tick
	return scaled - float64(int64(scaled+0.5))
}
