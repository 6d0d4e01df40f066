package risk

import (
	"errors"
	"testing"

	"github.com/krish567366/submicro-execution-engine/book"
	"github.com/krish567366/submicro-execution-engine/errs"
)

func defaultLimits() Limits {
	return Limits{MaxPosition: 1000, MaxNotional: 100_000, MaxOrderSize: 500, AllowNakedShort: true}
}

func TestAcceptsWithinAllLimits(t *testing.T) {
	g := New(defaultLimits())
	err := g.Check(Order{Side: book.SideBid, Price: 100, Quantity: 50}, 0)
	if err != nil {
		t.Fatalf("expected acceptance, got %v", err)
	}
}

func TestRejectsOversizedOrder(t *testing.T) {
	g := New(defaultLimits())
	err := g.Check(Order{Side: book.SideBid, Price: 100, Quantity: 5000}, 0)
	if !errors.Is(err, errs.ErrRiskReject) {
		t.Fatalf("expected ErrRiskReject, got %v", err)
	}
}

func TestRejectsPositionLimitBreach(t *testing.T) {
	g := New(defaultLimits())
	err := g.Check(Order{Side: book.SideBid, Price: 100, Quantity: 400}, 900)
	if !errors.Is(err, errs.ErrRiskReject) {
		t.Fatalf("expected ErrRiskReject on position breach, got %v", err)
	}
}

func TestRejectsNotionalBreach(t *testing.T) {
	g := New(Limits{MaxPosition: 100_000, MaxNotional: 1000, MaxOrderSize: 500, AllowNakedShort: true})
	err := g.Check(Order{Side: book.SideBid, Price: 100, Quantity: 50}, 0)
	if !errors.Is(err, errs.ErrRiskReject) {
		t.Fatalf("expected ErrRiskReject on notional breach, got %v", err)
	}
}

func TestRejectsNakedShortWhenDisallowed(t *testing.T) {
	g := New(Limits{MaxPosition: 1000, MaxNotional: 100_000, MaxOrderSize: 500, AllowNakedShort: false})
	err := g.Check(Order{Side: book.SideAsk, Price: 100, Quantity: 50}, 0)
	if !errors.Is(err, errs.ErrRiskReject) {
		t.Fatalf("expected ErrRiskReject on naked short, got %v", err)
	}
}

func TestAllowsShortCoveringWhenNakedShortDisallowed(t *testing.T) {
	g := New(Limits{MaxPosition: 1000, MaxNotional: 100_000, MaxOrderSize: 500, AllowNakedShort: false})
	err := g.Check(Order{Side: book.SideAsk, Price: 100, Quantity: 50}, 100)
	if err != nil {
		t.Fatalf("expected acceptance when sell only reduces a long position, got %v", err)
	}
}

func TestRejectsNonPositiveSize(t *testing.T) {
	g := New(defaultLimits())
	err := g.Check(Order{Side: book.SideBid, Price: 100, Quantity: 0}, 0)
	if !errors.Is(err, errs.ErrRiskReject) {
		t.Fatalf("expected ErrRiskReject for zero size, got %v", err)
	}
}
