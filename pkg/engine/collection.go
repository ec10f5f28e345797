// Package engine provides the distributed-collection side of the
// bridge: a partitioned record collection and the dispatch primitive
// that runs one task per partition.
//
// The package models the narrow surface Quasar consumes from a host
// collection engine. The in-process implementation here runs tasks on
// goroutines; a cluster-backed engine would substitute its own
// partitioning and scheduling behind the same shapes. Quasar adds no
// retry, timeout or partial-failure handling of its own: the first
// task error fails the whole dispatch.
package engine

import (
	"github.com/ajitpratap0/quasar/pkg/record"
)

// Collection is a partitioned sequence of records. Partition
// boundaries are fixed at construction; record order within a
// partition and the partition order itself define the collection's
// global row order.
type Collection struct {
	parts [][]*record.Record
}

// NewCollection splits records into the given number of contiguous
// partitions. Sizes differ by at most one; with more partitions than
// records, the tail partitions are empty.
func NewCollection(records []*record.Record, partitions int) *Collection {
	if partitions < 1 {
		partitions = 1
	}

	parts := make([][]*record.Record, partitions)
	base := len(records) / partitions
	rem := len(records) % partitions

	start := 0
	for i := range parts {
		size := base
		if i < rem {
			size++
		}
		parts[i] = records[start : start+size]
		start += size
	}
	return &Collection{parts: parts}
}

// FromPartitions builds a collection from pre-partitioned records.
// The outer slice index is the partition index.
func FromPartitions(parts [][]*record.Record) *Collection {
	return &Collection{parts: parts}
}

// Partitions returns the number of partitions.
func (c *Collection) Partitions() int {
	return len(c.parts)
}

// PartitionLen returns the number of records in one partition.
func (c *Collection) PartitionLen(partition int) int {
	return len(c.parts[partition])
}

// TotalLen returns the number of records across all partitions.
func (c *Collection) TotalLen() int {
	total := 0
	for _, p := range c.parts {
		total += len(p)
	}
	return total
}

// Partition returns an iterator over one partition's records in
// order.
func (c *Collection) Partition(partition int) *Iterator {
	return &Iterator{recs: c.parts[partition], i: -1}
}

// Records returns all records in global row order: partitions
// concatenated in index order.
func (c *Collection) Records() []*record.Record {
	out := make([]*record.Record, 0, c.TotalLen())
	for _, p := range c.parts {
		out = append(out, p...)
	}
	return out
}

// Iterator walks one partition's records.
type Iterator struct {
	recs []*record.Record
	i    int
}

// Next advances the iterator and reports whether a record is
// available.
func (it *Iterator) Next() bool {
	it.i++
	return it.i < len(it.recs)
}

// Record returns the current record.
func (it *Iterator) Record() *record.Record {
	return it.recs[it.i]
}
