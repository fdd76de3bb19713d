//go:build linux

package cmd

import (
	perf "github.com/hodgesds/perf-utils"
	"go.uber.org/zap"
)

// startPerf counts the instructions retired by this process until stop is called
func startPerf(logger *zap.Logger) (stop func(), err error) {
	var p perf.Profiler
	if p, err = perf.NewInstrProfiler(0, -1); err != nil {
		return
	}
	if err = p.Start(); err != nil {
		_ = p.Close()
		return
	}
	stop = func() {
		defer p.Close()
		v, err := p.Profile()
		if err != nil {
			logger.Warn("perf counters", zap.Error(err))
			return
		}
		logger.Info("perf counters",
			zap.Uint64("instructions", v.Value),
			zap.Uint64("time_running_ns", v.TimeRunning))
	}
	return
}
