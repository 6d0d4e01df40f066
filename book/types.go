// Package book implements the tick-by-tick limit-order-book reconstructor
// (spec §3, §4.3) and its Deep Order-Flow-Imbalance feature snapshot.
//
// Grounded on awstasiuk-market-simulator's internal/orderbook/book.go for
// the sorted-price-side shape (binary-search insert/remove over a dense
// price slice, a map from price to a per-level aggregate) — generalized
// from that repo's FIFO-queue-of-orders level to spec §3's flat
// order_by_id / level_by_price pair (no per-order time priority is modeled,
// per spec §4.3's explicit tie-break rule), and from the Design Notes'
// instruction to avoid cross-referenced level↔order pointers.
package book

// Side is 0 for bid, 1 for ask.
type Side uint8

const (
	SideBid Side = 0
	SideAsk Side = 1
)

// UpdateKind classifies an order-book update.
type UpdateKind uint8

const (
	KindAdd UpdateKind = iota
	KindModify
	KindDelete
	KindExecute
)

// Update is one decoded order-book event fed into ProcessUpdate.
//
// AggressorSide is only meaningful for Kind == KindExecute, where it
// classifies the trailing pressure-window bucket (spec §4.3: "appends to
// the trailing pressure window bucketed by aggressor side").
type Update struct {
	Seq           uint64
	TS            int64
	OrderID       uint64
	Side          Side
	Kind          UpdateKind
	Price         float64
	Quantity      float64
	AggressorSide Side
}

// PriceLevel is one side's aggregate at a single price (spec §3).
type PriceLevel struct {
	Price        float64
	Quantity     float64
	OrderCount   int
	LastUpdateNs int64
}

// LevelInput is one level of a snapshot fed to InitializeFromSnapshot.
type LevelInput struct {
	Price    float64
	Quantity float64
}

// BookLevel is a read-only top-of-book / depth result.
type BookLevel struct {
	Price    float64
	Quantity float64
}
