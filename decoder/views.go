package decoder

import (
	"fmt"
	"unsafe"

	"github.com/krish567366/submicro-execution-engine/errs"
)

// UpdateKind classifies an order-book update body (spec §4.2/§4.3).
type UpdateKind uint8

const (
	KindAdd UpdateKind = iota
	KindModify
	KindDelete
	KindExecute
)

// Side is 0 for bid, 1 for ask, matching spec §4.2's side∈{0,1}.
type Side uint8

const (
	SideBid Side = 0
	SideAsk Side = 1
)

// OrderUpdateView overlays an order-book update body: 32 bytes, no padding.
type OrderUpdateView struct {
	OrderID  uint64
	Price    float64
	Quantity float64
	SymbolID uint32
	Side     Side
	Kind     UpdateKind
	_        [2]byte
}

const orderUpdateViewSize = 32

// TradeView overlays a trade body: 32 bytes, no padding.
type TradeView struct {
	TradeID       uint64
	Price         float64
	Quantity      float64
	SymbolID      uint32
	AggressorSide Side
	_             [3]byte
}

const tradeViewSize = 32

// QuoteView overlays a top-of-book quote body: 40 bytes, no padding.
type QuoteView struct {
	Bid      float64
	BidQty   float64
	Ask      float64
	AskQty   float64
	SymbolID uint32
	_        [4]byte
}

const quoteViewSize = 40

// OrderUpdate overlays body as an *OrderUpdateView without copying.
func OrderUpdate(body []byte) (*OrderUpdateView, error) {
	if len(body) < orderUpdateViewSize {
		return nil, fmt.Errorf("%w: order-update body too short (%d < %d)", errs.ErrDecode, len(body), orderUpdateViewSize)
	}
	return (*OrderUpdateView)(unsafe.Pointer(&body[0])), nil
}

// Trade overlays body as a *TradeView without copying.
func Trade(body []byte) (*TradeView, error) {
	if len(body) < tradeViewSize {
		return nil, fmt.Errorf("%w: trade body too short (%d < %d)", errs.ErrDecode, len(body), tradeViewSize)
	}
	return (*TradeView)(unsafe.Pointer(&body[0])), nil
}

// Quote overlays body as a *QuoteView without copying.
func Quote(body []byte) (*QuoteView, error) {
	if len(body) < quoteViewSize {
		return nil, fmt.Errorf("%w: quote body too short (%d < %d)", errs.ErrDecode, len(body), quoteViewSize)
	}
	return (*QuoteView)(unsafe.Pointer(&body[0])), nil
}
