// Package quasar bridges two in-process data engines: a partitioned
// distributed record collection (row representation) and a columnar
// in-memory frame store (column-chunked representation consumed by
// model-training code).
//
// Quasar is deliberately thin: it owns no scheduler, no storage engine
// and no wire protocol. Distributed execution, partitioning and fault
// tolerance belong to the host engines it glues together. What Quasar
// contributes is the partition-parallel, schema-driven materialization
// protocol that converts between the two representations:
//
//   - bridge.RowToColumn materializes a partitioned record collection
//     into a finalized columnar frame, one parallel task per partition.
//   - bridge.ColumnToRow reads a finalized frame back into a record
//     collection, one record per row, preserving row order.
//
// # Architecture
//
// The repository is organized by concern:
//
//   - pkg/schema: explicit, statically declared schema descriptors and
//     the value-to-float64 coercion rules (booleans map to 1/0, missing
//     or unrecognized values degrade to NaN).
//   - pkg/frame: the columnar frame store. Frames are built from
//     per-partition, append-only segments that are sealed (compressed)
//     by the task that wrote them and become readable only after the
//     driver finalizes the frame header with every partition's row count.
//   - pkg/engine: the partitioned collection abstraction and the
//     dispatch primitive that runs one task per partition and gathers
//     results at the driver.
//   - pkg/bridge: the materializers tying the above together.
//   - pkg/arrowio: Apache Arrow interchange for downstream consumers.
//
// # Quick Start
//
// Materialize three records into a two-column frame:
//
//	recs := []*record.Record{
//	    record.New(map[string]any{"x": 1.0, "y": true}),
//	    record.New(map[string]any{"x": 2.0, "y": false}),
//	    record.New(map[string]any{"x": nil, "y": true}),
//	}
//	coll := engine.NewCollection(recs, 2)
//	sc := schema.New(
//	    schema.Field{Name: "x", Type: schema.Float64},
//	    schema.Field{Name: "y", Type: schema.Bool},
//	)
//	fr, err := bridge.RowToColumn(ctx, coll, sc)
//
// The resulting frame handle is opaque to Quasar itself; pass it to
// whatever consumes the columnar representation, or export it with
// pkg/arrowio.
package quasar
