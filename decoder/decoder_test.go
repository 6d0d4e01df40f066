package decoder

import (
	"testing"
	"unsafe"
)

func buildFrame(t *testing.T, typ MsgType, body []byte) []byte {
	t.Helper()
	buf := make([]byte, HeaderSize+len(body))
	h := (*Header)(unsafe.Pointer(&buf[0]))
	h.Seq = 1
	h.TS = 1000
	h.Len = uint32(len(body))
	h.Type = typ
	copy(buf[HeaderSize:], body)
	return buf
}

func TestValidateHeaderRoundTrip(t *testing.T) {
	body := make([]byte, orderUpdateViewSize)
	frame := buildFrame(t, MsgOrderUpdate, body)

	h, got, err := ValidateHeader(frame)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Seq != 1 || h.TS != 1000 || h.Type != MsgOrderUpdate {
		t.Fatalf("header fields not preserved: %+v", h)
	}
	if len(got) != len(body) {
		t.Fatalf("body length: want %d got %d", len(body), len(got))
	}
}

func TestValidateHeaderRejectsTruncated(t *testing.T) {
	if _, _, err := ValidateHeader(make([]byte, 4)); err == nil {
		t.Fatalf("expected error on truncated header")
	}
}

func TestValidateHeaderRejectsBadType(t *testing.T) {
	frame := buildFrame(t, MsgQuote, make([]byte, quoteViewSize))
	h := (*Header)(unsafe.Pointer(&frame[0]))
	h.Type = 99
	if _, _, err := ValidateHeader(frame); err == nil {
		t.Fatalf("expected error on out-of-range type")
	}
}

func TestOrderUpdateViewOverlay(t *testing.T) {
	body := make([]byte, orderUpdateViewSize)
	v := (*OrderUpdateView)(unsafe.Pointer(&body[0]))
	v.OrderID = 42
	v.Price = 100.5
	v.Quantity = 7
	v.SymbolID = 3
	v.Side = SideBid
	v.Kind = KindAdd

	got, err := OrderUpdate(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.OrderID != 42 || got.Price != 100.5 || got.Quantity != 7 || got.SymbolID != 3 || got.Side != SideBid || got.Kind != KindAdd {
		t.Fatalf("overlay mismatch: %+v", got)
	}
}

func TestDescriptorRingPollSubmit(t *testing.T) {
	ring, err := NewDescriptorRing(4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer ring.Close()

	if _, ok := ring.Poll(); ok {
		t.Fatalf("poll on empty ring should return false")
	}

	payload := []byte("hello-frame")
	if err := ring.Produce(payload); err != nil {
		t.Fatalf("produce: %v", err)
	}

	got, ok := ring.Poll()
	if !ok {
		t.Fatalf("expected data after produce")
	}
	if string(got) != string(payload) {
		t.Fatalf("poll payload mismatch: got %q", got)
	}
	if _, ok := ring.Poll(); ok {
		t.Fatalf("poll should be empty after draining the one frame")
	}

	if !ring.Submit([]byte("tx-frame")) {
		t.Fatalf("submit should succeed on empty ring")
	}
	txGot, ok := ring.DrainTX()
	if !ok || string(txGot) != "tx-frame" {
		t.Fatalf("drain tx mismatch: ok=%v got=%q", ok, txGot)
	}
}
