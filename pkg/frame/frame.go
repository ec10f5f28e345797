// Package frame implements the columnar frame store that
// materializations write into: the column-table side of the bridge.
//
// A Frame is identified by a process-unique key and built in three
// driver-visible phases. Prepare registers the key and the ordered
// column names (the header) but leaves the frame unreadable.
// CreateSegments hands one open segment per column to a partition
// task, which appends its rows and seals them. Finalize fixes the
// per-partition row counts, which fixes the global row ordering
// (partition 0's rows first, then partition 1's, and so on) and makes
// the frame readable.
//
// Each partition task owns exactly its own segments and never touches
// another partition's, so the parallel write phase needs no locks
// beyond the store-level registration done on the driver.
package frame

import (
	"sync"

	"github.com/google/uuid"

	"github.com/ajitpratap0/quasar/pkg/compression"
	"github.com/ajitpratap0/quasar/pkg/qerrors"
)

// NewKey returns a fresh process-unique frame key.
func NewKey() string {
	return "frame-" + uuid.NewString()
}

// Store is a process-local registry of frames keyed by unique string
// keys. It is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	frames map[string]*Frame
	comp   compression.Compressor
}

// NewStore creates a frame store whose segments seal with the given
// compression config (nil selects the LZ4 default).
func NewStore(cfg *compression.Config) (*Store, error) {
	comp, err := compression.NewCompressor(cfg)
	if err != nil {
		return nil, err
	}
	return &Store{
		frames: make(map[string]*Frame),
		comp:   comp,
	}, nil
}

var (
	defaultStore     *Store
	defaultStoreOnce sync.Once
)

// DefaultStore returns the shared process-wide store with default
// compression.
func DefaultStore() *Store {
	defaultStoreOnce.Do(func() {
		defaultStore, _ = NewStore(nil)
	})
	return defaultStore
}

// Prepare registers a new frame header under key with the given
// ordered column names. The frame identity becomes known but the
// frame is not readable until Finalize. A duplicate key is a
// conflict.
func (st *Store) Prepare(key string, columnNames []string) (*Frame, error) {
	if key == "" {
		return nil, qerrors.New(qerrors.ErrorTypeValidation, "empty frame key")
	}
	if len(columnNames) == 0 {
		return nil, qerrors.New(qerrors.ErrorTypeValidation, "frame with no columns")
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if _, exists := st.frames[key]; exists {
		return nil, qerrors.Newf(qerrors.ErrorTypeConflict, "frame %q already exists", key)
	}

	f := &Frame{
		key:   key,
		names: append([]string(nil), columnNames...),
		parts: make(map[int][]*Segment),
		comp:  st.comp,
	}
	st.frames[key] = f
	return f, nil
}

// Get returns the frame registered under key.
func (st *Store) Get(key string) (*Frame, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	f, ok := st.frames[key]
	if !ok {
		return nil, qerrors.Newf(qerrors.ErrorTypeNotFound, "frame %q not found", key)
	}
	return f, nil
}

// Drop removes the frame registered under key. Dropping an unknown
// key is a no-op.
func (st *Store) Drop(key string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.frames, key)
}

// CreateSegments opens one segment per column for one partition of
// the frame registered under key. See Frame.CreateSegments.
func (st *Store) CreateSegments(key string, partition int) ([]*Segment, error) {
	f, err := st.Get(key)
	if err != nil {
		return nil, err
	}
	return f.CreateSegments(partition)
}

// Len returns the number of registered frames.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.frames)
}

// Frame is one column-chunked table: a header plus, per column, one
// segment per source partition.
type Frame struct {
	key   string
	names []string
	comp  compression.Compressor

	mu        sync.RWMutex
	parts     map[int][]*Segment // partition index -> one segment per column
	finalized bool
	rowCounts []int
	offsets   []int // starting global row of each partition
	totalRows int
}

// Key returns the frame's unique key.
func (f *Frame) Key() string {
	return f.key
}

// ColumnNames returns the ordered column names. The returned slice
// must not be modified.
func (f *Frame) ColumnNames() []string {
	return f.names
}

// Cols returns the number of columns.
func (f *Frame) Cols() int {
	return len(f.names)
}

// CreateSegments opens one segment per column for the given
// partition. It is called once by the task that owns the partition;
// a second call for the same partition is a conflict, as is any call
// after Finalize.
func (f *Frame) CreateSegments(partition int) ([]*Segment, error) {
	if partition < 0 {
		return nil, qerrors.Newf(qerrors.ErrorTypeValidation, "negative partition index %d", partition)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.finalized {
		return nil, qerrors.Newf(qerrors.ErrorTypeConflict, "frame %q already finalized", f.key)
	}
	if _, exists := f.parts[partition]; exists {
		return nil, qerrors.Newf(qerrors.ErrorTypeConflict,
			"segments for partition %d of frame %q already created", partition, f.key)
	}

	segs := make([]*Segment, len(f.names))
	for i := range segs {
		segs[i] = newSegment(f.comp)
	}
	f.parts[partition] = segs
	return segs, nil
}

// Finalize seals the frame header with the per-partition row counts,
// indexed by partition. Every partition 0..len(rowCounts)-1 must have
// contributed sealed segments whose lengths match its count. After
// Finalize the frame is readable and immutable.
func (f *Frame) Finalize(rowCounts []int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.finalized {
		return qerrors.Newf(qerrors.ErrorTypeConflict, "frame %q already finalized", f.key)
	}
	if len(rowCounts) != len(f.parts) {
		return qerrors.Newf(qerrors.ErrorTypeValidation,
			"row count vector has %d entries, frame %q has %d partitions",
			len(rowCounts), f.key, len(f.parts))
	}

	offsets := make([]int, len(rowCounts))
	total := 0
	for part, count := range rowCounts {
		segs, ok := f.parts[part]
		if !ok {
			return qerrors.Newf(qerrors.ErrorTypeValidation,
				"frame %q missing segments for partition %d", f.key, part)
		}
		for col, seg := range segs {
			if !seg.Sealed() {
				return qerrors.Newf(qerrors.ErrorTypeValidation,
					"frame %q partition %d column %d not sealed", f.key, part, col)
			}
			if seg.Len() != count {
				return qerrors.Newf(qerrors.ErrorTypeValidation,
					"frame %q partition %d column %d has %d rows, expected %d",
					f.key, part, col, seg.Len(), count)
			}
		}
		offsets[part] = total
		total += count
	}

	f.rowCounts = append([]int(nil), rowCounts...)
	f.offsets = offsets
	f.totalRows = total
	f.finalized = true
	return nil
}

// Finalized reports whether the frame header has been sealed.
func (f *Frame) Finalized() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.finalized
}

// Rows returns the total row count of a finalized frame.
func (f *Frame) Rows() (int, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if !f.finalized {
		return 0, qerrors.Newf(qerrors.ErrorTypeConflict, "frame %q not finalized", f.key)
	}
	return f.totalRows, nil
}

// Partitions returns the number of partitions of a finalized frame.
func (f *Frame) Partitions() (int, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if !f.finalized {
		return 0, qerrors.Newf(qerrors.ErrorTypeConflict, "frame %q not finalized", f.key)
	}
	return len(f.rowCounts), nil
}

// RowCounts returns the per-partition row counts in partition order.
func (f *Frame) RowCounts() ([]int, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if !f.finalized {
		return nil, qerrors.Newf(qerrors.ErrorTypeConflict, "frame %q not finalized", f.key)
	}
	return f.rowCounts, nil
}

// PartitionColumn returns one column's cells for one partition.
func (f *Frame) PartitionColumn(partition, col int) ([]float64, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if !f.finalized {
		return nil, qerrors.Newf(qerrors.ErrorTypeConflict, "frame %q not finalized", f.key)
	}
	if partition < 0 || partition >= len(f.rowCounts) {
		return nil, qerrors.Newf(qerrors.ErrorTypeValidation,
			"partition %d out of range [0, %d)", partition, len(f.rowCounts))
	}
	if col < 0 || col >= len(f.names) {
		return nil, qerrors.Newf(qerrors.ErrorTypeValidation,
			"column %d out of range [0, %d)", col, len(f.names))
	}
	return f.parts[partition][col].Values()
}

// Column returns one column's cells across all partitions, in global
// row order.
func (f *Frame) Column(col int) ([]float64, error) {
	f.mu.RLock()
	if !f.finalized {
		f.mu.RUnlock()
		return nil, qerrors.Newf(qerrors.ErrorTypeConflict, "frame %q not finalized", f.key)
	}
	parts := len(f.rowCounts)
	total := f.totalRows
	f.mu.RUnlock()

	if col < 0 || col >= len(f.names) {
		return nil, qerrors.Newf(qerrors.ErrorTypeValidation,
			"column %d out of range [0, %d)", col, len(f.names))
	}

	out := make([]float64, 0, total)
	for part := 0; part < parts; part++ {
		vals, err := f.PartitionColumn(part, col)
		if err != nil {
			return nil, err
		}
		out = append(out, vals...)
	}
	return out, nil
}

// Value returns a single cell by global row and column index.
func (f *Frame) Value(row, col int) (float64, error) {
	f.mu.RLock()
	if !f.finalized {
		f.mu.RUnlock()
		return 0, qerrors.Newf(qerrors.ErrorTypeConflict, "frame %q not finalized", f.key)
	}
	if row < 0 || row >= f.totalRows {
		f.mu.RUnlock()
		return 0, qerrors.Newf(qerrors.ErrorTypeValidation,
			"row %d out of range [0, %d)", row, f.totalRows)
	}
	// Find the owning partition; the offsets vector is small.
	part := len(f.offsets) - 1
	for ; part > 0; part-- {
		if f.offsets[part] <= row {
			break
		}
	}
	local := row - f.offsets[part]
	f.mu.RUnlock()

	vals, err := f.PartitionColumn(part, col)
	if err != nil {
		return 0, err
	}
	return vals[local], nil
}
