package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptySnapshotSingleAdd(t *testing.T) {
	b := New()
	b.InitializeFromSnapshot(nil, nil, 10)

	var fired int
	b.RegisterDeepStateCallback(func(DeepOFI) { fired++ })

	ok := b.ProcessUpdate(Update{Seq: 11, OrderID: 1, Side: SideBid, Kind: KindAdd, Price: 100.00, Quantity: 5})
	require.True(t, ok, "expected update to apply")

	bid, bidOK, _, askOK := b.TopOfBook()
	require.True(t, bidOK)
	assert.Equal(t, 100.00, bid.Price)
	assert.Equal(t, 5.0, bid.Quantity)
	assert.False(t, askOK, "ask side should be empty")
	assert.Equal(t, 1, fired, "expected exactly one OFI callback")
}

func TestSequenceGapThenRecovery(t *testing.T) {
	b := New()
	b.InitializeFromSnapshot(nil, nil, 10)
	b.ProcessUpdate(Update{Seq: 11, OrderID: 1, Side: SideBid, Kind: KindAdd, Price: 100.00, Quantity: 5})

	ok := b.ProcessUpdate(Update{Seq: 13, OrderID: 2, Side: SideBid, Kind: KindAdd, Price: 99.0, Quantity: 1})
	assert.False(t, ok, "expected gap update to be rejected")
	assert.True(t, b.GapDetected())
	assert.Equal(t, uint64(1), b.MissedUpdates())

	b.InitializeFromSnapshot(nil, nil, 13)
	assert.False(t, b.GapDetected(), "expected gap_detected = false after re-snapshot")
}

func TestMonotoneSequenceAndGapDetection(t *testing.T) {
	b := New()
	b.InitializeFromSnapshot(nil, nil, 5)
	for i := uint64(1); i <= 3; i++ {
		ok := b.ProcessUpdate(Update{Seq: 5 + i, OrderID: i, Side: SideAsk, Kind: KindAdd, Price: 10 + float64(i), Quantity: 1})
		require.True(t, ok, "update %d should apply", i)
	}
	assert.Equal(t, uint64(8), b.LastSequence())
	assert.False(t, b.GapDetected())

	b2 := New()
	b2.InitializeFromSnapshot(nil, nil, 5)
	b2.ProcessUpdate(Update{Seq: 7, OrderID: 1, Side: SideAsk, Kind: KindAdd, Price: 10, Quantity: 1})
	assert.True(t, b2.GapDetected(), "presenting seq 7 after snapshot seq 5 should trigger gap_detected")
}

func TestLevelRemovedWhenFullyExecuted(t *testing.T) {
	b := New()
	b.InitializeFromSnapshot(nil, nil, 1)
	b.ProcessUpdate(Update{Seq: 2, OrderID: 1, Side: SideBid, Kind: KindAdd, Price: 50, Quantity: 10})
	b.ProcessUpdate(Update{Seq: 3, OrderID: 1, Side: SideBid, Kind: KindExecute, Quantity: 10, AggressorSide: SideAsk})

	bids, _ := b.Depth(10)
	for _, l := range bids {
		assert.NotEqual(t, 50.0, l.Price, "fully executed level should have been removed")
	}
}

func TestConservationAcrossUpdates(t *testing.T) {
	b := New()
	b.InitializeFromSnapshot(nil, nil, 0)
	ops := []Update{
		{Seq: 1, OrderID: 1, Side: SideBid, Kind: KindAdd, Price: 100, Quantity: 5},
		{Seq: 2, OrderID: 2, Side: SideBid, Kind: KindAdd, Price: 100, Quantity: 3},
		{Seq: 3, OrderID: 3, Side: SideAsk, Kind: KindAdd, Price: 101, Quantity: 4},
		{Seq: 4, OrderID: 1, Side: SideBid, Kind: KindModify, Price: 99, Quantity: 2},
		{Seq: 5, OrderID: 3, Side: SideAsk, Kind: KindExecute, Quantity: 2, AggressorSide: SideBid},
		{Seq: 6, OrderID: 2, Side: SideBid, Kind: KindDelete},
	}
	for _, u := range ops {
		require.True(t, b.ProcessUpdate(u), "update seq=%d failed to apply", u.Seq)
		bo, bl, ao, al := b.conservationCheck()
		assert.Equal(t, bl, bo, "bid conservation violated after seq=%d", u.Seq)
		assert.Equal(t, al, ao, "ask conservation violated after seq=%d", u.Seq)
	}
}
