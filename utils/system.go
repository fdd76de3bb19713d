package utils

import (
	"runtime"
)

type MemUsage struct {
	AllocMiB, TotalAllocMiB, SysMiB float64
	NumGC                           uint32
}

// GetMemUsage samples the runtime heap statistics
func GetMemUsage() MemUsage {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	bToMb := func(b uint64) float64 {
		return float64(b) / (1 << 20)
	}
	return MemUsage{
		AllocMiB:      bToMb(m.Alloc),
		TotalAllocMiB: bToMb(m.TotalAlloc),
		SysMiB:        bToMb(m.Sys),
		NumGC:         m.NumGC,
	}
}
