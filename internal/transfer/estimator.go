package transfer

import (
	"fmt"
	"sync"
	"time"
)

const (
	statusDownloading = "Downloading..."
	statusFinalizing  = "Finalizing..."
)

func compressingStatus(itemCount int) string {
	if itemCount > 1 {
		return fmt.Sprintf("Compressing %d recordings...", itemCount)
	}
	return "Compressing recording..."
}

// estimator turns raw received-byte counts into monotonic whole percents.
// With a known total it reports floor(received/total*100) clamped to 99,
// reserving 100 for materialization. Without a total, a ticker advances the
// percent by 5 per interval, capped at 90, until the stream ends.
type estimator struct {
	total int64
	tick  time.Duration
	emit  func(percent int, status string)

	mu      sync.Mutex
	percent int
	started bool

	stop chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

func newEstimator(total int64, tick time.Duration, emit func(int, string)) *estimator {
	return &estimator{total: total, tick: tick, emit: emit, stop: make(chan struct{})}
}

// observe records the running byte count after a chunk lands. It emits at
// most once per distinct percent, plus once up front to flip the status
// label to downloading.
func (e *estimator) observe(received int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	pct := e.percent
	if e.total > 0 {
		pct = int(received * 100 / e.total)
		if pct > 99 {
			pct = 99
		}
		if pct < e.percent {
			pct = e.percent
		}
	}
	if pct == e.percent && e.started {
		return
	}
	e.percent = pct
	e.started = true
	e.emit(pct, statusDownloading)
}

// startHeuristic drives percent growth for streams with unknown length.
// No-op when the total is known.
func (e *estimator) startHeuristic() {
	if e.total > 0 || e.tick <= 0 {
		return
	}
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		ticker := time.NewTicker(e.tick)
		defer ticker.Stop()
		for {
			select {
			case <-e.stop:
				return
			case <-ticker.C:
				e.mu.Lock()
				if e.percent < 90 {
					e.percent += 5
					e.started = true
					e.emit(e.percent, statusDownloading)
				}
				e.mu.Unlock()
			}
		}
	}()
}

// halt stops the heuristic and waits it out, so no tick can land after the
// finalize write.
func (e *estimator) halt() {
	e.once.Do(func() { close(e.stop) })
	e.wg.Wait()
}
