// Package arrowio provides Apache Arrow interchange for finalized
// frames. Downstream ML tooling that speaks Arrow can consume a
// materialized frame without knowing anything about Quasar's segment
// layout, and an Arrow record batch can be turned back into a
// partitioned collection for the reverse direction.
//
// Cells use the same missing-value convention on both sides: a NaN
// cell exports as an Arrow null, and an Arrow null imports as a nil
// field value.
package arrowio

import (
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/quasar/pkg/engine"
	"github.com/ajitpratap0/quasar/pkg/frame"
	"github.com/ajitpratap0/quasar/pkg/qerrors"
	"github.com/ajitpratap0/quasar/pkg/record"
	"github.com/ajitpratap0/quasar/pkg/schema"
)

// FrameToRecord converts a finalized frame into one Arrow record
// batch of nullable float64 columns. The caller must Release the
// returned record.
func FrameToRecord(f *frame.Frame) (arrow.Record, error) {
	rows, err := f.Rows()
	if err != nil {
		return nil, err
	}

	fields := make([]arrow.Field, f.Cols())
	for i, name := range f.ColumnNames() {
		fields[i] = arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Float64, Nullable: true}
	}
	arrowSchema := arrow.NewSchema(fields, nil)

	pool := memory.NewGoAllocator()
	builder := array.NewRecordBuilder(pool, arrowSchema)
	defer builder.Release()

	for col := 0; col < f.Cols(); col++ {
		vals, err := f.Column(col)
		if err != nil {
			return nil, err
		}
		fb := builder.Field(col).(*array.Float64Builder)
		fb.Reserve(rows)
		for _, v := range vals {
			if schema.IsMissing(v) {
				fb.AppendNull()
			} else {
				fb.Append(v)
			}
		}
	}

	return builder.NewRecord(), nil
}

// WriteFrameIPC writes a finalized frame to w in the Arrow IPC file
// format.
func WriteFrameIPC(w io.Writer, f *frame.Frame) error {
	rec, err := FrameToRecord(f)
	if err != nil {
		return err
	}
	defer rec.Release()

	fw, err := ipc.NewFileWriter(w, ipc.WithSchema(rec.Schema()))
	if err != nil {
		return qerrors.Wrap(err, qerrors.ErrorTypeData, "creating Arrow writer")
	}
	if err := fw.Write(rec); err != nil {
		fw.Close()
		return qerrors.Wrap(err, qerrors.ErrorTypeData, "writing Arrow record batch")
	}
	return fw.Close()
}

// CollectionFromRecord converts one Arrow record batch of float64
// columns into a partitioned collection. Nulls become nil field
// values. Column names become record field names.
func CollectionFromRecord(rec arrow.Record, partitions int) (*engine.Collection, error) {
	cols := make([]*array.Float64, rec.NumCols())
	names := make([]string, rec.NumCols())
	for i := 0; i < int(rec.NumCols()); i++ {
		f64, ok := rec.Column(i).(*array.Float64)
		if !ok {
			return nil, qerrors.Newf(qerrors.ErrorTypeSchema,
				"column %q has Arrow type %s, expected float64",
				rec.ColumnName(i), rec.Column(i).DataType())
		}
		cols[i] = f64
		names[i] = rec.ColumnName(i)
	}

	recs := make([]*record.Record, rec.NumRows())
	for row := 0; row < int(rec.NumRows()); row++ {
		data := make(map[string]interface{}, len(cols))
		for i, col := range cols {
			if col.IsNull(row) {
				data[names[i]] = nil
			} else {
				data[names[i]] = col.Value(row)
			}
		}
		recs[row] = record.New(data)
	}

	return engine.NewCollection(recs, partitions), nil
}
