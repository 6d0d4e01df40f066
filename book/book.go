package book

// trackedOrder is the order_by_id entry of spec §3: the only place an
// order's side/price/quantity lives. Level aggregates are maintained
// incrementally as orders attach and detach, never via a back-pointer
// (Design Notes: avoid cross-referenced level↔order pointers).
type trackedOrder struct {
	Price    float64
	Quantity float64
	Side     Side
}

// OrderBook reconstructs one symbol's book tick by tick (spec §4.3).
type OrderBook struct {
	bids *priceSide
	asks *priceSide

	orders map[uint64]trackedOrder

	lastSequence  uint64
	gapDetected   bool
	missedUpdates uint64

	pressure  *pressureWindow
	priorBidQ [ofiDepth]float64
	priorAskQ [ofiDepth]float64

	listeners []func(DeepOFI)
}

// New returns an empty, uninitialized book. lastSequence starts at 0, and
// gap detection is skipped while lastSequence is 0, so the first update is
// accepted whatever its sequence number and sets the baseline for the next.
func New() *OrderBook {
	return &OrderBook{
		bids:     newPriceSide(true),
		asks:     newPriceSide(false),
		orders:   make(map[uint64]trackedOrder),
		pressure: newPressureWindow(1000),
	}
}

// InitializeFromSnapshot clears prior state and seeds both sides from a
// sorted snapshot, per spec §4.3. Resets gap detection.
func (b *OrderBook) InitializeFromSnapshot(bids, asks []LevelInput, seq uint64) {
	b.bids.clear()
	b.asks.clear()
	b.orders = make(map[uint64]trackedOrder)

	for _, l := range bids {
		lvl := b.bids.getOrCreate(l.Price)
		lvl.Quantity = l.Quantity
		lvl.OrderCount = 1
	}
	for _, l := range asks {
		lvl := b.asks.getOrCreate(l.Price)
		lvl.Quantity = l.Quantity
		lvl.OrderCount = 1
	}

	b.lastSequence = seq
	b.gapDetected = false
	b.resetOFIBaseline()
}

// NeedsSnapshotRecovery reports whether a gap has been detected; updates
// are refused until InitializeFromSnapshot is called again.
func (b *OrderBook) NeedsSnapshotRecovery() bool { return b.gapDetected }

// MissedUpdates returns the cumulative count of skipped sequence numbers.
func (b *OrderBook) MissedUpdates() uint64 { return b.missedUpdates }

// LastSequence returns the sequence number of the last applied update or
// snapshot.
func (b *OrderBook) LastSequence() uint64 { return b.lastSequence }

// GapDetected reports the current gap flag.
func (b *OrderBook) GapDetected() bool { return b.gapDetected }

// RegisterDeepStateCallback adds a listener invoked synchronously with a
// Deep-OFI snapshot after every successfully applied update (spec §4.3).
func (b *OrderBook) RegisterDeepStateCallback(fn func(DeepOFI)) {
	b.listeners = append(b.listeners, fn)
}

// ProcessUpdate applies one decoded update, returning whether it was
// applied. It never partially applies: either every side effect happens or
// none does.
func (b *OrderBook) ProcessUpdate(u Update) bool {
	if b.gapDetected {
		return false
	}
	if b.lastSequence != 0 && u.Seq != b.lastSequence+1 {
		b.gapDetected = true
		expected := b.lastSequence + 1
		var gap uint64
		if u.Seq > expected {
			gap = u.Seq - expected
		} else {
			gap = 1
		}
		b.missedUpdates += gap
		return false
	}

	switch u.Kind {
	case KindAdd:
		b.applyAdd(u)
	case KindModify:
		b.applyModify(u)
	case KindDelete:
		b.applyDelete(u)
	case KindExecute:
		b.applyExecute(u)
	default:
		return false
	}

	b.lastSequence = u.Seq
	b.publishOFI(u.TS)
	return true
}

func (b *OrderBook) sideOf(s Side) *priceSide {
	if s == SideBid {
		return b.bids
	}
	return b.asks
}

func (b *OrderBook) applyAdd(u Update) {
	// Defensive: an ADD against a live order id first removes its old
	// contribution so level aggregates never double-count. Spec §4.3 does
	// not define this case explicitly; treating it as replace-in-place
	// preserves the conservation invariant (spec §8) unconditionally.
	if old, ok := b.orders[u.OrderID]; ok {
		b.detachOrder(u.OrderID, old)
	}
	b.attachOrder(u.OrderID, u.Side, u.Price, u.Quantity, u.TS)
}

func (b *OrderBook) applyModify(u Update) {
	// MODIFY is DELETE-of-old followed by ADD-at-new for the same id;
	// MODIFY of an unknown id behaves as ADD (spec §4.3).
	if old, ok := b.orders[u.OrderID]; ok {
		b.detachOrder(u.OrderID, old)
	}
	b.attachOrder(u.OrderID, u.Side, u.Price, u.Quantity, u.TS)
}

func (b *OrderBook) applyDelete(u Update) {
	old, ok := b.orders[u.OrderID]
	if !ok {
		return
	}
	b.detachOrder(u.OrderID, old)
}

func (b *OrderBook) applyExecute(u Update) {
	old, ok := b.orders[u.OrderID]
	if !ok {
		b.pressure.record(u.AggressorSide, u.Quantity)
		return
	}

	side := b.sideOf(old.Side)
	lvl, ok2 := side.levels[old.Price]
	if !ok2 {
		delete(b.orders, u.OrderID)
		b.pressure.record(u.AggressorSide, u.Quantity)
		return
	}

	if u.Quantity >= old.Quantity {
		lvl.Quantity -= old.Quantity
		lvl.OrderCount--
		delete(b.orders, u.OrderID)
	} else {
		lvl.Quantity -= u.Quantity
		old.Quantity -= u.Quantity
		b.orders[u.OrderID] = old
	}
	lvl.LastUpdateNs = u.TS
	if lvl.OrderCount <= 0 || lvl.Quantity <= 0 {
		side.remove(lvl.Price)
	}

	b.pressure.record(u.AggressorSide, u.Quantity)
}

// attachOrder inserts a new tracked order and folds its quantity into the
// level aggregate, creating the level if absent.
func (b *OrderBook) attachOrder(orderID uint64, side Side, price, qty float64, ts int64) {
	b.orders[orderID] = trackedOrder{Price: price, Quantity: qty, Side: side}
	lvl := b.sideOf(side).getOrCreate(price)
	lvl.Quantity += qty
	lvl.OrderCount++
	lvl.LastUpdateNs = ts
}

// detachOrder removes a tracked order's contribution from its level,
// dropping the level atomically with the last order's removal.
func (b *OrderBook) detachOrder(orderID uint64, old trackedOrder) {
	delete(b.orders, orderID)
	side := b.sideOf(old.Side)
	lvl, ok := side.levels[old.Price]
	if !ok {
		return
	}
	lvl.Quantity -= old.Quantity
	lvl.OrderCount--
	if lvl.OrderCount <= 0 || lvl.Quantity <= 0 {
		side.remove(old.Price)
	}
}

// TopOfBook returns the current best bid/ask levels, each with an ok flag
// that is false when that side is empty.
func (b *OrderBook) TopOfBook() (bid BookLevel, bidOK bool, ask BookLevel, askOK bool) {
	if lvl, ok := b.bids.best(); ok {
		bid, bidOK = BookLevel{Price: lvl.Price, Quantity: lvl.Quantity}, true
	}
	if lvl, ok := b.asks.best(); ok {
		ask, askOK = BookLevel{Price: lvl.Price, Quantity: lvl.Quantity}, true
	}
	return
}

// Depth returns up to n (n <= 10) levels per side, in price-sorted order.
func (b *OrderBook) Depth(n int) (bids, asks []BookLevel) {
	if n > 10 {
		n = 10
	}
	return b.bids.depth(n), b.asks.depth(n)
}

// conservationCheck sums tracked-order quantity and level quantity per side
// — exported only to tests, which use it to assert spec §8's invariant.
func (b *OrderBook) conservationCheck() (bidOrders, bidLevels, askOrders, askLevels float64) {
	for _, o := range b.orders {
		if o.Side == SideBid {
			bidOrders += o.Quantity
		} else {
			askOrders += o.Quantity
		}
	}
	bidLevels = b.bids.totalQuantity()
	askLevels = b.asks.totalQuantity()
	return
}
