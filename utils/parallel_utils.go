package utils

import (
	"sort"

	"golang.org/x/sync/errgroup"
)

// PartitionMap splits the index range [0, Size) into ParallelDegree
// contiguous buckets whose lengths differ by at most one.
type PartitionMap struct {
	Size           int
	ParallelDegree int
	Partitions     [][2]int // [start, end) of each bucket
}

func NewPartitionMap(ParallelDegree, size int) (pm *PartitionMap) {
	if ParallelDegree < 1 {
		ParallelDegree = 1
	}
	pm = &PartitionMap{
		Size:           size,
		ParallelDegree: ParallelDegree,
		Partitions:     make([][2]int, ParallelDegree),
	}
	var (
		base, extra = size / ParallelDegree, size % ParallelDegree
		start       int
	)
	for bn := range pm.Partitions {
		n := base
		if bn < extra {
			n++
		}
		pm.Partitions[bn] = [2]int{start, start + n}
		start += n
	}
	return
}

func (pm *PartitionMap) Range(bn int) (kMin, kMax int) {
	return pm.Partitions[bn][0], pm.Partitions[bn][1]
}

func (pm *PartitionMap) Len(bn int) int {
	return pm.Partitions[bn][1] - pm.Partitions[bn][0]
}

// Bucket returns the bucket holding index k, or -1 when k is out of range
func (pm *PartitionMap) Bucket(k int) (bn int) {
	if k < 0 || k >= pm.Size {
		return -1
	}
	return sort.Search(pm.ParallelDegree, func(bn int) bool {
		return pm.Partitions[bn][1] > k
	})
}

// ForEachBucket runs fn once per non-empty bucket and waits for all of them.
// A single bucket runs on the calling goroutine. The first error is returned.
func (pm *PartitionMap) ForEachBucket(fn func(bn, kMin, kMax int) error) error {
	if pm.ParallelDegree == 1 {
		return fn(0, 0, pm.Size)
	}
	var g errgroup.Group
	for bn := range pm.Partitions {
		if pm.Len(bn) == 0 {
			continue
		}
		bn := bn
		kMin, kMax := pm.Range(bn)
		g.Go(func() error {
			return fn(bn, kMin, kMax)
		})
	}
	return g.Wait()
}
