// Package risk implements the pre-trade gate of spec §4.7: a fixed ordered
// set of constraints checked against a proposed order before it reaches the
// simulator's matching path.
//
// Grounded on original_source/include/compile_time_dispatch.hpp's
// CompileTimeRiskChecker/RiskParameters<RiskPolicy> for the constraint set
// and on errs.ErrRiskReject for the rejection taxonomy. Check evaluates
// order size, naked-short, position limit, then notional limit, in that
// order.
package risk

import (
	"fmt"
	"math"

	"github.com/krish567366/submicro-execution-engine/book"
	"github.com/krish567366/submicro-execution-engine/errs"
)

// Limits are the gate's configured thresholds (spec §4.7).
type Limits struct {
	MaxPosition     float64 // |inventory after fill| must stay within this
	MaxNotional     float64 // |inventory after fill| * price must stay within this
	MaxOrderSize    float64 // single order quantity ceiling
	AllowNakedShort bool    // if false, a sell that would take inventory negative is rejected
}

// Order is the minimal shape the gate needs from a proposed order.
type Order struct {
	Side     book.Side
	Price    float64
	Quantity float64
}

// Gate evaluates proposed orders against Limits.
type Gate struct {
	limits Limits
}

// New returns a Gate over the given limits.
func New(limits Limits) *Gate {
	return &Gate{limits: limits}
}

// Check runs the ordered constraints of spec §4.7 against a proposed order
// and the current signed inventory, returning the first failing constraint
// wrapped in errs.ErrRiskReject, or nil if the order is accepted.
func (g *Gate) Check(o Order, currentInventory float64) error {
	if o.Quantity <= 0 {
		return fmt.Errorf("%w: non-positive order size %v", errs.ErrRiskReject, o.Quantity)
	}
	if o.Quantity > g.limits.MaxOrderSize {
		return fmt.Errorf("%w: order size %v exceeds max order size %v", errs.ErrRiskReject, o.Quantity, g.limits.MaxOrderSize)
	}

	signed := o.Quantity
	if o.Side == book.SideAsk {
		signed = -signed
	}
	projected := currentInventory + signed

	if !g.limits.AllowNakedShort && projected < 0 {
		return fmt.Errorf("%w: projected inventory %v would go naked short", errs.ErrRiskReject, projected)
	}
	if math.Abs(projected) > g.limits.MaxPosition {
		return fmt.Errorf("%w: projected position %v exceeds max position %v", errs.ErrRiskReject, projected, g.limits.MaxPosition)
	}
	notional := math.Abs(projected) * o.Price
	if notional > g.limits.MaxNotional {
		return fmt.Errorf("%w: projected notional %v exceeds max notional %v", errs.ErrRiskReject, notional, g.limits.MaxNotional)
	}
	return nil
}
