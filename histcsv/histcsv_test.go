package histcsv

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krish567366/submicro-execution-engine/book"
)

const sampleCSV = `ts_us,event_type,side,price,size,order_id,level
2000,add,B,100.00,5,1,0
1000,add,S,101.00,3,2,0
3000,trade,,100.50,1,,
`

func TestParseSortsByTimestampAscending(t *testing.T) {
	recs, err := Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, int64(1_000_000), recs[0].TimestampNs)
	assert.Equal(t, int64(2_000_000), recs[1].TimestampNs)
	assert.Equal(t, int64(3_000_000), recs[2].TimestampNs)
}

func TestMicrosecondsConvertToNanoseconds(t *testing.T) {
	recs, err := Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	assert.Equal(t, int64(1000*1000), recs[0].TimestampNs)
}

func TestSyntheticSpreadAroundPrice(t *testing.T) {
	recs, err := Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	rec := recs[1] // the add at price 100.00
	assert.Less(t, rec.SyntheticBid, 100.00)
	assert.Greater(t, rec.SyntheticAsk, 100.00)
}

func TestSideParsing(t *testing.T) {
	recs, err := Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	assert.Equal(t, book.SideAsk, recs[0].Side, "expected ask side for 'S'")
	assert.Equal(t, book.SideBid, recs[1].Side, "expected bid side for 'B'")
}
