package bridge

import (
	"context"

	"go.uber.org/zap"

	"github.com/ajitpratap0/quasar/pkg/engine"
	"github.com/ajitpratap0/quasar/pkg/frame"
	"github.com/ajitpratap0/quasar/pkg/logger"
	"github.com/ajitpratap0/quasar/pkg/metrics"
	"github.com/ajitpratap0/quasar/pkg/observability"
	"github.com/ajitpratap0/quasar/pkg/qerrors"
	"github.com/ajitpratap0/quasar/pkg/record"
	"github.com/ajitpratap0/quasar/pkg/schema"
)

// ColumnToRow reads a finalized frame back into a partitioned record
// collection: one record per row, columns mapped to fields by
// position, row and partition order preserved. A NaN cell reads back
// as a nil field value, completing the missing-value round trip.
//
// The target schema must have exactly as many fields as the frame has
// columns; field names become the record field names.
func ColumnToRow(ctx context.Context, f *frame.Frame, sc *schema.Schema, opts ...Option) (*engine.Collection, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	if sc.Len() != f.Cols() {
		return nil, qerrors.Newf(qerrors.ErrorTypeSchema,
			"target schema has %d fields, frame %q has %d columns", sc.Len(), f.Key(), f.Cols())
	}

	partitions, err := f.Partitions()
	if err != nil {
		return nil, err
	}

	timer := metrics.NewTimer("column_to_row")
	_, span := observability.StartSpan(ctx, "quasar.column_to_row", f.Key(), partitions)
	defer span.End()

	fields := sc.Fields()
	parts := make([][]*record.Record, partitions)
	for part := 0; part < partitions; part++ {
		cols := make([][]float64, len(fields))
		for col := range fields {
			cols[col], err = f.PartitionColumn(part, col)
			if err != nil {
				span.RecordError(err)
				return nil, err
			}
		}

		rows := 0
		if len(cols) > 0 {
			rows = len(cols[0])
		}
		recs := make([]*record.Record, rows)
		for row := 0; row < rows; row++ {
			data := make(map[string]interface{}, len(fields))
			for col, field := range fields {
				data[field.Name] = schema.FromCell(cols[col][row])
			}
			rec := record.New(data)
			rec.Metadata.Partition = part
			recs[row] = rec
		}
		parts[part] = recs
	}

	coll := engine.FromPartitions(parts)
	metrics.RowsMaterialized.WithLabelValues("column_to_row").Add(float64(coll.TotalLen()))

	logger.Debug("materialized frame to collection",
		zap.String("frame", f.Key()),
		zap.Int("rows", coll.TotalLen()),
		zap.Int("partitions", partitions),
		zap.Duration("elapsed", timer.Stop()))
	return coll, nil
}
