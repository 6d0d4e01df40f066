// Package decoder implements the zero-copy binary decoder and the
// memory-mapped descriptor-ring abstraction of spec §4.2.
//
// The decoder is a zero-logic overlay: given a byte buffer of at least the
// declared length, it returns a typed view of the fixed binary layout
// without copying, using unsafe.Pointer casts over a []byte exactly the way
// the teacher's parser package reads raw fields straight out of a wire
// buffer (parser.HandleFrame, utils.load64/load128).
package decoder

import (
	"fmt"
	"unsafe"

	"github.com/krish567366/submicro-execution-engine/errs"
)

// MsgType identifies the payload shape following a Header.
type MsgType uint8

const (
	MsgOrderUpdate MsgType = iota
	MsgTrade
	MsgQuote
	msgTypeCount
)

// Header overlays the fixed (seq,type,len,ts) prefix of every wire frame.
// Field order is chosen so the struct carries no implicit padding: two
// 8-byte fields first, then a 4-byte length, then the 1-byte type with its
// trailing pad made explicit.
type Header struct {
	Seq  uint64
	TS   int64
	Len  uint32
	Type MsgType
	_    [3]byte
}

// HeaderSize is the fixed on-wire size of Header.
const HeaderSize = 24

// ValidateHeader overlays buf's first HeaderSize bytes as a Header and
// returns it along with the body slice (buf[HeaderSize:]), rejecting
// truncated buffers and out-of-range message types. No copy occurs: the
// returned body aliases buf.
func ValidateHeader(buf []byte) (*Header, []byte, error) {
	if len(buf) < HeaderSize {
		return nil, nil, fmt.Errorf("%w: frame shorter than header (%d < %d)", errs.ErrDecode, len(buf), HeaderSize)
	}
	h := (*Header)(unsafe.Pointer(&buf[0]))
	if h.Type >= msgTypeCount {
		return nil, nil, fmt.Errorf("%w: message type %d out of range", errs.ErrDecode, h.Type)
	}
	body := buf[HeaderSize:]
	if uint32(len(body)) < h.Len {
		return nil, nil, fmt.Errorf("%w: declared len %d exceeds available body %d", errs.ErrDecode, h.Len, len(body))
	}
	return h, body[:h.Len], nil
}
