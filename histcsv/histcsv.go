// Package histcsv parses the historical-event CSV input format of spec §6:
// a header row followed by records with columns
// ts_us,event_type,side,price,size,order_id,level. Timestamps convert from
// microseconds to nanoseconds; missing top-of-book is synthesized as a
// 2-basis-point spread around price; records are returned sorted by
// timestamp ascending.
//
// Grounded on the teacher's encoding/csv-free style — the teacher has no
// CSV reader of its own, so this follows the Design Notes' instruction
// that flat tabular data with no schema evolution stays on
// encoding/csv rather than pulling in a third-party CSV library.
package histcsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/krish567366/submicro-execution-engine/book"
)

// EventType enumerates the event_type column's recognized values.
type EventType uint8

const (
	EventSnapshot EventType = iota
	EventAdd
	EventModify
	EventCancel
	EventTrade
)

// syntheticSpreadBps is the basis-point half-spread used to synthesize a
// top-of-book when explicit bid/ask data is absent (spec §6).
const syntheticSpreadBps = 2.0

// Record is one parsed historical event, with ts_us already converted to
// nanoseconds and a synthesized side/spread when the row needed it.
type Record struct {
	TimestampNs int64
	Type        EventType
	Side        book.Side
	Price       float64
	Size        float64
	OrderID     uint64
	Level       int
	// SyntheticBid/SyntheticAsk stand in for top-of-book on a trade record,
	// which carries only the trade price, not a resting bid/ask. Consumed
	// by sim.Event's same-named fields when the book has no levels yet at
	// the time a trade print arrives.
	SyntheticBid float64
	SyntheticAsk float64
}

func parseEventType(s string) (EventType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "snapshot":
		return EventSnapshot, nil
	case "add":
		return EventAdd, nil
	case "modify":
		return EventModify, nil
	case "cancel":
		return EventCancel, nil
	case "trade":
		return EventTrade, nil
	default:
		return 0, fmt.Errorf("histcsv: unrecognized event_type %q", s)
	}
}

func parseSide(s string) book.Side {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "S":
		return book.SideAsk
	default:
		return book.SideBid
	}
}

// Parse reads the historical-event CSV from r and returns records sorted
// by TimestampNs ascending. The first row is treated as a header and
// skipped.
func Parse(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("histcsv: read: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	rows = rows[1:] // drop header

	out := make([]Record, 0, len(rows))
	for i, row := range rows {
		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("histcsv: row %d: %w", i+2, err)
		}
		out = append(out, rec)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].TimestampNs < out[j].TimestampNs })
	return out, nil
}

func parseRow(row []string) (Record, error) {
	col := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	tsUs, err := strconv.ParseInt(col(0), 10, 64)
	if err != nil {
		return Record{}, fmt.Errorf("ts_us: %w", err)
	}
	evType, err := parseEventType(col(1))
	if err != nil {
		return Record{}, err
	}

	var price, size float64
	if v := col(3); v != "" {
		if price, err = strconv.ParseFloat(v, 64); err != nil {
			return Record{}, fmt.Errorf("price: %w", err)
		}
	}
	if v := col(4); v != "" {
		if size, err = strconv.ParseFloat(v, 64); err != nil {
			return Record{}, fmt.Errorf("size: %w", err)
		}
	}
	var orderID uint64
	if v := col(5); v != "" {
		if orderID, err = strconv.ParseUint(v, 10, 64); err != nil {
			return Record{}, fmt.Errorf("order_id: %w", err)
		}
	}
	var level int
	if v := col(6); v != "" {
		lv, err := strconv.Atoi(v)
		if err != nil {
			return Record{}, fmt.Errorf("level: %w", err)
		}
		level = lv
	}

	rec := Record{
		TimestampNs: tsUs * 1000,
		Type:        evType,
		Side:        parseSide(col(2)),
		Price:       price,
		Size:        size,
		OrderID:     orderID,
		Level:       level,
	}

	half := price * syntheticSpreadBps / 10000
	rec.SyntheticBid = price - half
	rec.SyntheticAsk = price + half

	return rec, nil
}
