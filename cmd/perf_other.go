//go:build !linux

package cmd

import (
	"fmt"
	"runtime"

	"go.uber.org/zap"
)

func startPerf(logger *zap.Logger) (stop func(), err error) {
	err = fmt.Errorf("hardware counters are not available on %s", runtime.GOOS)
	return
}
