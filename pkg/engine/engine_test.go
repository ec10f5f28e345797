package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/quasar/pkg/record"
)

func makeRecords(n int) []*record.Record {
	recs := make([]*record.Record, n)
	for i := range recs {
		recs[i] = record.New(map[string]interface{}{"id": float64(i)})
	}
	return recs
}

func TestNewCollectionSplit(t *testing.T) {
	tests := []struct {
		records    int
		partitions int
		wantSizes  []int
	}{
		{10, 1, []int{10}},
		{10, 3, []int{4, 3, 3}},
		{3, 2, []int{2, 1}},
		{3, 7, []int{1, 1, 1, 0, 0, 0, 0}},
		{0, 2, []int{0, 0}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_records_%d_parts", tt.records, tt.partitions), func(t *testing.T) {
			c := NewCollection(makeRecords(tt.records), tt.partitions)
			require.Equal(t, tt.partitions, c.Partitions())

			sizes := make([]int, c.Partitions())
			for i := range sizes {
				sizes[i] = c.PartitionLen(i)
			}
			assert.Equal(t, tt.wantSizes, sizes)
			assert.Equal(t, tt.records, c.TotalLen())
		})
	}
}

func TestCollectionGlobalOrder(t *testing.T) {
	recs := makeRecords(7)
	c := NewCollection(recs, 3)

	// Partitions concatenated in index order reproduce the input.
	assert.Equal(t, recs, c.Records())

	// Iterators preserve record order within a partition.
	it := c.Partition(0)
	var ids []float64
	for it.Next() {
		ids = append(ids, it.Record().Field("id").(float64))
	}
	assert.Equal(t, []float64{0, 1, 2}, ids)
}

func TestDispatchGathersAllPartitions(t *testing.T) {
	c := NewCollection(makeRecords(20), 5)

	type result struct {
		partition int
		count     int
	}

	results, err := Dispatch(context.Background(), c,
		func(ctx context.Context, partition int, it *Iterator) (result, error) {
			count := 0
			for it.Next() {
				count++
			}
			return result{partition: partition, count: count}, nil
		}, Options{MaxWorkers: 3})
	require.NoError(t, err)
	require.Len(t, results, 5)

	// Completion order is unspecified; re-sort by partition index the
	// way real callers must.
	sort.Slice(results, func(i, j int) bool { return results[i].partition < results[j].partition })
	for part, res := range results {
		assert.Equal(t, part, res.partition)
		assert.Equal(t, 4, res.count)
	}
}

func TestDispatchPropagatesTaskError(t *testing.T) {
	c := NewCollection(makeRecords(10), 4)
	boom := errors.New("task exploded")

	_, err := Dispatch(context.Background(), c,
		func(ctx context.Context, partition int, it *Iterator) (int, error) {
			if partition == 2 {
				return 0, boom
			}
			return partition, nil
		}, Options{})
	assert.ErrorIs(t, err, boom)
}

func TestDispatchHonorsCancellation(t *testing.T) {
	c := NewCollection(makeRecords(10), 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Dispatch(ctx, c,
		func(ctx context.Context, partition int, it *Iterator) (int, error) {
			return 0, ctx.Err()
		}, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDispatchEmptyPartitions(t *testing.T) {
	c := NewCollection(nil, 3)

	results, err := Dispatch(context.Background(), c,
		func(ctx context.Context, partition int, it *Iterator) (int, error) {
			count := 0
			for it.Next() {
				count++
			}
			return count, nil
		}, Options{})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 0}, results)
}
