package utils

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitionMap(t *testing.T) {
	lengths := func(pm *PartitionMap) (histo map[int]int) {
		histo = make(map[int]int)
		for bn := 0; bn < pm.ParallelDegree; bn++ {
			histo[pm.Len(bn)]++
		}
		return
	}
	{ // Bucket lengths differ by at most one and cover the range
		assert.Equal(t, map[int]int{0: 30, 1: 2}, lengths(NewPartitionMap(32, 2)))
		assert.Equal(t, map[int]int{8: 32}, lengths(NewPartitionMap(32, 256)))
		assert.Equal(t, map[int]int{8: 1, 9: 31}, lengths(NewPartitionMap(32, 287)))
		for n := 64; n < 2000; n += 7 {
			pm := NewPartitionMap(32, n)
			var next int
			for bn := range pm.Partitions {
				kMin, kMax := pm.Range(bn)
				assert.Equal(t, next, kMin)
				next = kMax
			}
			assert.Equal(t, n, next)
			assert.LessOrEqual(t, len(lengths(pm)), 2)
		}
	}
	{ // Every index maps back to the bucket containing it
		for size := 10; size < 300; size++ {
			pm := NewPartitionMap(5, size)
			for k := 0; k < size; k++ {
				kMin, kMax := pm.Range(pm.Bucket(k))
				assert.True(t, k >= kMin && k < kMax)
			}
		}
		pm := NewPartitionMap(4, 10)
		assert.Equal(t, -1, pm.Bucket(10))
		assert.Equal(t, -1, pm.Bucket(-1))
	}
	{ // Degree below one is clamped to serial
		pm := NewPartitionMap(0, 7)
		assert.Equal(t, 1, pm.ParallelDegree)
		assert.Equal(t, [2]int{0, 7}, pm.Partitions[0])
	}
}

func TestPartitionMap_ForEachBucket(t *testing.T) {
	{ // Every index is visited exactly once
		for _, np := range []int{1, 3, 8, 16} {
			var (
				pm      = NewPartitionMap(np, 13)
				visited = make([]int32, 13)
			)
			err := pm.ForEachBucket(func(bn, kMin, kMax int) error {
				for k := kMin; k < kMax; k++ {
					atomic.AddInt32(&visited[k], 1)
				}
				return nil
			})
			require.NoError(t, err)
			for k := range visited {
				assert.Equal(t, int32(1), visited[k], "np=%d k=%d", np, k)
			}
		}
	}
	{ // Errors propagate
		var (
			pm       = NewPartitionMap(4, 40)
			sentinel = errors.New("bucket failed")
		)
		err := pm.ForEachBucket(func(bn, kMin, kMax int) error {
			if bn == 2 {
				return sentinel
			}
			return nil
		})
		assert.ErrorIs(t, err, sentinel)
	}
}
