package hawkes

import "testing"

func TestLambdaFloorsAtBaseline(t *testing.T) {
	e := New(Params{MuBuy: 0.5, MuSell: 0.3, AlphaSelf: 0.1, AlphaCross: 0.05, Beta: 1e-3, Gamma: 1.2, MaxHistory: 64})
	if e.LambdaBuy() < 0.5 {
		t.Fatalf("lambda buy below baseline mu before any events: %v", e.LambdaBuy())
	}
	if e.LambdaSell() < 0.3 {
		t.Fatalf("lambda sell below baseline mu before any events: %v", e.LambdaSell())
	}
}

func TestLambdaMonotoneInHistorySize(t *testing.T) {
	e := New(Params{MuBuy: 0.1, MuSell: 0.1, AlphaSelf: 0.2, AlphaCross: 0.1, Beta: 1e-3, Gamma: 1.5, MaxHistory: 64})
	var prev float64
	for i := 0; i < 10; i++ {
		e.Update(int64(i)*1e6, SideBuy)
		if e.LambdaBuy() < prev {
			t.Fatalf("lambda buy decreased after adding event %d: prev=%v now=%v", i, prev, e.LambdaBuy())
		}
		prev = e.LambdaBuy()
	}
}

func TestGammaBetaCoercion(t *testing.T) {
	e := New(Params{Gamma: 0.5, Beta: -1})
	if e.params.Gamma != 1.5 {
		t.Fatalf("gamma <= 1 should coerce to 1.5, got %v", e.params.Gamma)
	}
	if e.params.Beta != 1e-6 {
		t.Fatalf("beta <= 0 should coerce to 1e-6, got %v", e.params.Beta)
	}
}

func TestIntensityImbalanceZeroWhenTiny(t *testing.T) {
	e := &Engine{lambdaBuy: 0, lambdaSell: 0}
	if e.IntensityImbalance() != 0 {
		t.Fatalf("expected 0 imbalance for near-zero total intensity")
	}
}

func TestTemporalFilterRejectsDirectionFlip(t *testing.T) {
	f := NewTemporalFilter()
	for i := 0; i < 11; i++ {
		f.Update(int64(i)*1e5, 0.12)
	}
	f.Update(11*1e5, -0.10)

	if f.IsPersistent(-0.10) {
		t.Fatalf("expected no persistent signal after a direction flip resets the run")
	}
	if f.ConfirmationTicks() != 1 {
		t.Fatalf("expected confirmation_ticks=1 after flip+reseed, got %d", f.ConfirmationTicks())
	}
}

func TestTemporalFilterAcceptsPersistentFlow(t *testing.T) {
	f := NewTemporalFilter()
	var obi float64
	for i := 0; i < 12; i++ {
		obi = 0.10
		f.Update(int64(i)*1e5, obi)
	}
	if !f.IsPersistent(obi) {
		t.Fatalf("expected persistent signal after 12 consistent ticks")
	}
	if f.ConfirmationTicks() != 12 {
		t.Fatalf("conf_ticks: want 12 got %d", f.ConfirmationTicks())
	}
	if f.Direction() != DirUp {
		t.Fatalf("expected direction up (BUY side)")
	}
}

func TestTemporalFilterResetsBelowThreshold(t *testing.T) {
	f := NewTemporalFilter()
	for i := 0; i < 12; i++ {
		f.Update(int64(i)*1e5, 0.10)
	}
	f.Update(12*1e5, 0.01)
	if f.ConfirmationTicks() != 0 {
		t.Fatalf("expected reset once |obi| falls below threshold, got conf_ticks=%d", f.ConfirmationTicks())
	}
}
