package arrowio

import (
	"bytes"
	"context"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/quasar/pkg/bridge"
	"github.com/ajitpratap0/quasar/pkg/compression"
	"github.com/ajitpratap0/quasar/pkg/engine"
	"github.com/ajitpratap0/quasar/pkg/frame"
	"github.com/ajitpratap0/quasar/pkg/record"
	"github.com/ajitpratap0/quasar/pkg/schema"
)

func materializeTestFrame(t *testing.T) *frame.Frame {
	t.Helper()

	st, err := frame.NewStore(&compression.Config{Algorithm: compression.None})
	require.NoError(t, err)

	coll := engine.NewCollection([]*record.Record{
		record.New(map[string]interface{}{"x": 1.0, "y": true}),
		record.New(map[string]interface{}{"x": 2.0, "y": false}),
		record.New(map[string]interface{}{"x": nil, "y": true}),
	}, 2)

	sc := schema.New(
		schema.Field{Name: "x", Type: schema.Float64},
		schema.Field{Name: "y", Type: schema.Bool},
	)

	f, err := bridge.RowToColumn(context.Background(), coll, sc, bridge.WithStore(st))
	require.NoError(t, err)
	return f
}

func TestFrameToRecord(t *testing.T) {
	f := materializeTestFrame(t)

	rec, err := FrameToRecord(f)
	require.NoError(t, err)
	defer rec.Release()

	assert.EqualValues(t, 3, rec.NumRows())
	assert.EqualValues(t, 2, rec.NumCols())
	assert.Equal(t, "x", rec.ColumnName(0))
	assert.Equal(t, "y", rec.ColumnName(1))

	x := rec.Column(0).(*array.Float64)
	assert.Equal(t, 1.0, x.Value(0))
	assert.Equal(t, 2.0, x.Value(1))
	assert.True(t, x.IsNull(2), "NaN cell exports as Arrow null")

	y := rec.Column(1).(*array.Float64)
	assert.Equal(t, []float64{1, 0, 1}, []float64{y.Value(0), y.Value(1), y.Value(2)})
}

func TestWriteFrameIPC(t *testing.T) {
	f := materializeTestFrame(t)

	var buf bytes.Buffer
	require.NoError(t, WriteFrameIPC(&buf, f))
	require.Positive(t, buf.Len())

	r, err := ipc.NewFileReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer r.Close()

	require.Equal(t, 1, r.NumRecords())
	rec, err := r.Record(0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, rec.NumRows())
}

func TestCollectionFromRecord(t *testing.T) {
	pool := memory.NewGoAllocator()
	arrowSchema := arrow.NewSchema([]arrow.Field{
		{Name: "a", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
	}, nil)

	builder := array.NewRecordBuilder(pool, arrowSchema)
	defer builder.Release()

	fb := builder.Field(0).(*array.Float64Builder)
	fb.Append(1.5)
	fb.AppendNull()
	fb.Append(3.0)

	rec := builder.NewRecord()
	defer rec.Release()

	coll, err := CollectionFromRecord(rec, 2)
	require.NoError(t, err)
	require.Equal(t, 3, coll.TotalLen())
	assert.Equal(t, 2, coll.Partitions())

	recs := coll.Records()
	assert.Equal(t, 1.5, recs[0].Field("a"))
	assert.Nil(t, recs[1].Field("a"), "Arrow null imports as nil")
	assert.Equal(t, 3.0, recs[2].Field("a"))
}

func TestCollectionFromRecordRejectsNonFloat(t *testing.T) {
	pool := memory.NewGoAllocator()
	arrowSchema := arrow.NewSchema([]arrow.Field{
		{Name: "s", Type: arrow.BinaryTypes.String},
	}, nil)

	builder := array.NewRecordBuilder(pool, arrowSchema)
	defer builder.Release()
	builder.Field(0).(*array.StringBuilder).Append("nope")

	rec := builder.NewRecord()
	defer rec.Release()

	_, err := CollectionFromRecord(rec, 1)
	assert.Error(t, err)
}
