package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeepOFISpreadAndMid(t *testing.T) {
	b := New()
	b.InitializeFromSnapshot(nil, nil, 0)

	var last DeepOFI
	b.RegisterDeepStateCallback(func(s DeepOFI) { last = s })

	b.ProcessUpdate(Update{Seq: 1, OrderID: 1, Side: SideBid, Kind: KindAdd, Price: 99, Quantity: 10})
	b.ProcessUpdate(Update{Seq: 2, OrderID: 2, Side: SideAsk, Kind: KindAdd, Price: 101, Quantity: 10})

	assert.Equal(t, 2.0, last.Spread)
	assert.Equal(t, 100.0, last.Mid)
	assert.Equal(t, 100.0, last.VolumeWeightedMid, "vw mid with symmetric sizes")
}

func TestDeepOFIDeltaAgainstPriorSnapshot(t *testing.T) {
	b := New()
	b.InitializeFromSnapshot([]LevelInput{{Price: 100, Quantity: 5}}, nil, 0)

	var last DeepOFI
	b.RegisterDeepStateCallback(func(s DeepOFI) { last = s })

	b.ProcessUpdate(Update{Seq: 1, OrderID: 1, Side: SideBid, Kind: KindAdd, Price: 100, Quantity: 5})

	assert.Equal(t, 5.0, last.BidDelta[0], "bid delta at top level")
}
