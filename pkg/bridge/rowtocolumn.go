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
	"github.com/ajitpratap0/quasar/pkg/schema"
)

// RowToColumn materializes a partitioned record collection into a
// finalized columnar frame. The frame's row count equals the
// collection's record count; its columns follow the schema's declared
// order; its global row order concatenates partitions in ascending
// index order.
//
// The call fails fast on an invalid schema, before the frame key is
// registered. Any task failure aborts the whole call and drops the
// partial frame, so no half-registered table is left queryable. Cells
// whose source values have no numeric mapping degrade silently to NaN
// and are only counted.
func RowToColumn(ctx context.Context, coll *engine.Collection, sc *schema.Schema, opts ...Option) (*frame.Frame, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	o := buildOptions(opts)
	timer := metrics.NewTimer("row_to_column")

	ctx, span := observability.StartSpan(ctx, "quasar.row_to_column", o.key, coll.Partitions())
	defer span.End()

	f, err := o.store.Prepare(o.key, sc.Names())
	if err != nil {
		return nil, err
	}

	fields := sc.Fields()
	results, err := engine.Dispatch(ctx, coll,
		func(ctx context.Context, partition int, it *engine.Iterator) (PartitionResult, error) {
			metrics.ActiveTasks.Inc()
			defer metrics.ActiveTasks.Dec()

			segs, err := f.CreateSegments(partition)
			if err != nil {
				return PartitionResult{}, err
			}

			res := PartitionResult{PartitionIndex: partition}
			for it.Next() {
				rec := it.Record()
				for col, field := range fields {
					cell, degraded := schema.Coerce(rec.Field(field.Name))
					if degraded {
						res.Degraded++
					}
					if err := segs[col].Append(cell); err != nil {
						return PartitionResult{}, err
					}
				}
				res.RowCount++
			}

			for _, seg := range segs {
				if err := seg.Seal(); err != nil {
					return PartitionResult{}, err
				}
				metrics.SegmentBytes.Add(float64(seg.CompressedSize()))
			}
			return res, nil
		},
		engine.Options{MaxWorkers: o.workers})
	if err != nil {
		o.store.Drop(o.key)
		span.RecordError(err)
		return nil, err
	}

	// Results arrive in completion order; the row-count vector is
	// indexed by partition, so place each result at its own index.
	rowCounts := make([]int, coll.Partitions())
	seen := make([]bool, coll.Partitions())
	degraded := 0
	for _, res := range results {
		if res.PartitionIndex < 0 || res.PartitionIndex >= len(rowCounts) || seen[res.PartitionIndex] {
			o.store.Drop(o.key)
			return nil, qerrors.Newf(qerrors.ErrorTypeInternal,
				"dispatch returned invalid partition index %d", res.PartitionIndex)
		}
		seen[res.PartitionIndex] = true
		rowCounts[res.PartitionIndex] = res.RowCount
		degraded += res.Degraded
	}

	if err := f.Finalize(rowCounts); err != nil {
		o.store.Drop(o.key)
		span.RecordError(err)
		return nil, err
	}

	rows, _ := f.Rows()
	metrics.RowsMaterialized.WithLabelValues("row_to_column").Add(float64(rows))
	if degraded > 0 {
		metrics.DegradedValues.Add(float64(degraded))
		logger.Warn("values degraded to NaN during materialization",
			zap.String("frame", o.key),
			zap.Int("degraded", degraded),
			zap.Int("rows", rows))
	}

	logger.Debug("materialized collection to frame",
		zap.String("frame", o.key),
		zap.Int("rows", rows),
		zap.Int("columns", sc.Len()),
		zap.Int("partitions", coll.Partitions()),
		zap.Duration("elapsed", timer.Stop()))
	return f, nil
}
