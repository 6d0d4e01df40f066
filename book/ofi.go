package book

// ofiDepth is the number of levels per side tracked for order-flow
// imbalance (spec §3: "up to ten levels of bid/ask prices and sizes").
const ofiDepth = 10

// DeepOFI is the feature snapshot published after every successfully
// applied book update (spec §3, §4.3).
type DeepOFI struct {
	TimestampNs int64

	BidDelta [ofiDepth]float64
	AskDelta [ofiDepth]float64

	Top1OFI         float64
	Top5OFI         float64
	TotalOFI        float64
	VolumeWeightedOFI float64

	VolumeImbalance float64
	DepthImbalance  float64

	Spread          float64
	Mid             float64
	VolumeWeightedMid float64

	BuyPressure  float64
	SellPressure float64
}

// resetOFIBaseline sets the prior-quantity arrays to the book's current
// depth quantities, used after a snapshot load so the next update's deltas
// are measured against the fresh state.
func (b *OrderBook) resetOFIBaseline() {
	bidQ, askQ := b.currentDepthQuantities()
	b.priorBidQ = bidQ
	b.priorAskQ = askQ
}

// currentDepthQuantities reads the top ofiDepth per-side quantities,
// padded with zero, per spec §4.3.
func (b *OrderBook) currentDepthQuantities() (bidQ, askQ [ofiDepth]float64) {
	bids := b.bids.depth(ofiDepth)
	asks := b.asks.depth(ofiDepth)
	for i, l := range bids {
		bidQ[i] = l.Quantity
	}
	for i, l := range asks {
		askQ[i] = l.Quantity
	}
	return
}

// publishOFI computes the Deep-OFI snapshot for the update just applied at
// ts and fires every registered listener synchronously, in applied-update
// order (spec §5).
func (b *OrderBook) publishOFI(ts int64) {
	bidQ, askQ := b.currentDepthQuantities()

	var snap DeepOFI
	snap.TimestampNs = ts

	for i := 0; i < ofiDepth; i++ {
		snap.BidDelta[i] = bidQ[i] - b.priorBidQ[i]
		snap.AskDelta[i] = askQ[i] - b.priorAskQ[i]
	}
	b.priorBidQ = bidQ
	b.priorAskQ = askQ

	snap.Top1OFI = snap.BidDelta[0] - snap.AskDelta[0]

	var sum5Bid, sum5Ask, sumAllBid, sumAllAsk float64
	var weighted float64
	for i := 0; i < ofiDepth; i++ {
		if i < 5 {
			sum5Bid += snap.BidDelta[i]
			sum5Ask += snap.AskDelta[i]
		}
		sumAllBid += snap.BidDelta[i]
		sumAllAsk += snap.AskDelta[i]
		// Volume-weighted OFI decays the contribution of deeper levels by
		// distance from top-of-book — a documented modeling choice (the
		// spec names the feature but not its exact weighting function).
		weighted += (snap.BidDelta[i] - snap.AskDelta[i]) / float64(i+1)
	}
	snap.Top5OFI = sum5Bid - sum5Ask
	snap.TotalOFI = sumAllBid - sumAllAsk
	snap.VolumeWeightedOFI = weighted

	totalBidQty := b.bids.totalQuantity()
	totalAskQty := b.asks.totalQuantity()
	if denom := totalBidQty + totalAskQty; denom > 0 {
		snap.VolumeImbalance = (totalBidQty - totalAskQty) / denom
	}

	bidLevels := float64(len(b.bids.prices))
	askLevels := float64(len(b.asks.prices))
	if denom := bidLevels + askLevels; denom > 0 {
		snap.DepthImbalance = (bidLevels - askLevels) / denom
	}

	bidLvl, bidOK := b.bids.best()
	askLvl, askOK := b.asks.best()
	if bidOK && askOK {
		snap.Spread = askLvl.Price - bidLvl.Price
		snap.Mid = (bidLvl.Price + askLvl.Price) / 2
		if denom := bidLvl.Quantity + askLvl.Quantity; denom > 0 {
			snap.VolumeWeightedMid = (bidLvl.Price*askLvl.Quantity + askLvl.Price*bidLvl.Quantity) / denom
		}
	}

	snap.BuyPressure = b.pressure.buySum
	snap.SellPressure = b.pressure.sellSum

	for _, fn := range b.listeners {
		fn(snap)
	}
}
