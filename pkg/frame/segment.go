package frame

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/ajitpratap0/quasar/pkg/compression"
	"github.com/ajitpratap0/quasar/pkg/qerrors"
)

// Segment is a partition-local, append-only run of one column's
// cells. Exactly one partition task writes a segment; once the task
// seals it, the raw values are compressed and the segment becomes
// immutable. Reads decompress lazily and cache the decoded values.
//
// A segment is not safe for concurrent appends. Sealing before the
// frame is finalized establishes the happens-before edge that makes
// later concurrent reads safe.
type Segment struct {
	comp compression.Compressor

	vals   []byte // packed little-endian float64, nil after seal
	n      int
	sealed bool

	compressed []byte

	decodeOnce sync.Once
	decoded    []float64
	decodeErr  error
}

func newSegment(comp compression.Compressor) *Segment {
	return &Segment{comp: comp}
}

// Append adds one cell to the segment. Appending to a sealed segment
// is an error.
func (s *Segment) Append(v float64) error {
	if s.sealed {
		return qerrors.New(qerrors.ErrorTypeConflict, "append to sealed segment")
	}
	s.vals = binary.LittleEndian.AppendUint64(s.vals, math.Float64bits(v))
	s.n++
	return nil
}

// Len returns the number of cells written so far.
func (s *Segment) Len() int {
	return s.n
}

// Sealed reports whether the segment has been sealed.
func (s *Segment) Sealed() bool {
	return s.sealed
}

// Seal compresses the segment and makes it immutable. Sealing twice
// is an error.
func (s *Segment) Seal() error {
	if s.sealed {
		return qerrors.New(qerrors.ErrorTypeConflict, "segment already sealed")
	}
	compressed, err := s.comp.Compress(s.vals)
	if err != nil {
		return qerrors.Wrap(err, qerrors.ErrorTypeData, "compressing segment")
	}
	s.compressed = compressed
	s.vals = nil
	s.sealed = true
	return nil
}

// Values returns the segment's cells in append order. The segment
// must be sealed. The returned slice is shared; callers must not
// modify it.
func (s *Segment) Values() ([]float64, error) {
	if !s.sealed {
		return nil, qerrors.New(qerrors.ErrorTypeConflict, "reading unsealed segment")
	}
	s.decodeOnce.Do(func() {
		raw, err := s.comp.Decompress(s.compressed)
		if err != nil {
			s.decodeErr = qerrors.Wrap(err, qerrors.ErrorTypeData, "decompressing segment")
			return
		}
		vals := make([]float64, s.n)
		for i := range vals {
			vals[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*8:]))
		}
		s.decoded = vals
	})
	return s.decoded, s.decodeErr
}

// CompressedSize returns the sealed payload size in bytes, or 0 for
// an unsealed segment.
func (s *Segment) CompressedSize() int {
	return len(s.compressed)
}
