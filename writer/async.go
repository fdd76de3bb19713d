package writer

import (
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

var ErrClosed = errors.New("writer: closed")

// Async forwards snapshots to a wrapped writer on its own goroutine. Write
// never blocks: when the queue is full the snapshot is dropped and counted.
type Async struct {
	w       Writer
	queue   chan *Snapshot
	logger  *zap.Logger
	wg      sync.WaitGroup
	once    sync.Once
	sendMu  sync.RWMutex
	closed  bool
	dropped atomic.Int64
	mu      sync.Mutex
	err     error
}

func NewAsync(w Writer, depth int, logger *zap.Logger) *Async {
	if depth < 1 {
		depth = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &Async{
		w:      w,
		queue:  make(chan *Snapshot, depth),
		logger: logger,
	}
	a.wg.Add(1)
	go a.run()
	return a
}

func (a *Async) run() {
	defer a.wg.Done()
	for s := range a.queue {
		if err := a.w.Write(s); err != nil {
			a.logger.Error("snapshot write failed",
				zap.Int("step", s.Step), zap.Float64("time", s.Time), zap.Error(err))
			a.mu.Lock()
			if a.err == nil {
				a.err = err
			}
			a.mu.Unlock()
		}
	}
}

func (a *Async) Write(s *Snapshot) error {
	a.sendMu.RLock()
	defer a.sendMu.RUnlock()
	if a.closed {
		return ErrClosed
	}
	select {
	case a.queue <- s:
	default:
		n := a.dropped.Add(1)
		a.logger.Warn("writer queue full, snapshot dropped",
			zap.Int("step", s.Step), zap.Float64("time", s.Time), zap.Int64("dropped", n))
	}
	return nil
}

func (a *Async) Dropped() int64 { return a.dropped.Load() }

// Close drains the queue, closes the wrapped writer and returns the first error
func (a *Async) Close() (err error) {
	a.once.Do(func() {
		a.sendMu.Lock()
		a.closed = true
		close(a.queue)
		a.sendMu.Unlock()
		a.wg.Wait()
		err = a.w.Close()
		a.mu.Lock()
		if a.err != nil {
			err = a.err
		}
		a.mu.Unlock()
	})
	return
}
