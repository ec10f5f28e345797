// Package record defines the row-side record type consumed and
// produced by the materializers. A Record is a structurally typed
// datum: a map of named fields whose values are numbers, booleans,
// strings, pointer-wrapped variants of those, or nil for an absent
// value. Records are pooled to keep bulk materializations cheap.
package record

import (
	"sync"
	"time"
)

// Metadata carries optional provenance for a record.
type Metadata struct {
	// Source identifies the producing system or reader
	Source string `json:"source,omitempty"`
	// Partition is the source partition index, when known
	Partition int `json:"partition,omitempty"`
	// Timestamp is when the record was read or created
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// Record is one structured input datum with named fields.
type Record struct {
	// Data holds the field values keyed by field name
	Data map[string]interface{} `json:"data"`
	// Metadata carries provenance information
	Metadata Metadata `json:"metadata,omitempty"`
}

// recordPool recycles records between materializations. Data maps are
// pre-sized for typical small schemas and cleared on release.
var recordPool = sync.Pool{
	New: func() interface{} {
		return &Record{Data: make(map[string]interface{}, 16)}
	},
}

// New creates a record holding the given field values. The map is
// used directly, not copied.
func New(data map[string]interface{}) *Record {
	return &Record{Data: data}
}

// Get returns a pooled record with an empty data map. Release it when
// done to enable reuse.
func Get() *Record {
	return recordPool.Get().(*Record)
}

// Release clears the record and returns it to the pool.
func (r *Record) Release() {
	for k := range r.Data {
		delete(r.Data, k)
	}
	r.Metadata = Metadata{}
	recordPool.Put(r)
}

// Set stores a field value and returns the record for chaining.
func (r *Record) Set(name string, value interface{}) *Record {
	r.Data[name] = value
	return r
}

// Field returns the value of the named field. A missing field reads
// as nil, which coerces to the NaN sentinel downstream; the two are
// deliberately indistinguishable.
func (r *Record) Field(name string) interface{} {
	return r.Data[name]
}

// Len returns the number of fields present.
func (r *Record) Len() int {
	return len(r.Data)
}
