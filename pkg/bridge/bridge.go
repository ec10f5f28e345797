// Package bridge implements the two materializers that translate
// between a partitioned record collection and a columnar frame.
//
// RowToColumn is the partition-parallel, schema-driven protocol: the
// driver validates the schema and registers the frame header once,
// one task per partition writes and seals its own column segments,
// and the driver finalizes the header after a full barrier with every
// partition's row count placed at its partition index. ColumnToRow is
// the mirror operation, one record per row in frame order.
//
// Coercion never fails a task: a value with no numeric mapping
// becomes a NaN cell and is counted, not raised. A declared column
// type with no numeric mapping, by contrast, fails the whole call on
// the driver before any task is dispatched.
package bridge

import (
	"github.com/ajitpratap0/quasar/pkg/frame"
)

// PartitionResult is the payload one partition task returns to the
// driver: its own partition index, the rows it wrote, and how many
// cells degraded to NaN. The driver places each result at position
// PartitionIndex in a results vector sized to the partition count;
// task completion order is meaningless.
type PartitionResult struct {
	PartitionIndex int
	RowCount       int
	Degraded       int
}

type options struct {
	store   *frame.Store
	key     string
	workers int
}

// Option customizes a materialization call.
type Option func(*options)

// WithStore selects the destination frame store. Defaults to the
// process-wide store.
func WithStore(st *frame.Store) Option {
	return func(o *options) { o.store = st }
}

// WithKey fixes the destination frame key instead of generating a
// fresh one. Useful when the caller coordinates keys itself.
func WithKey(key string) Option {
	return func(o *options) { o.key = key }
}

// WithWorkers bounds concurrent partition tasks; 0 means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.store == nil {
		o.store = frame.DefaultStore()
	}
	if o.key == "" {
		o.key = frame.NewKey()
	}
	return o
}
