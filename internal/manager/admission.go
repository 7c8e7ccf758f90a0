package manager

import (
	"context"
	"time"
)

// beginGeneration reserves a queue slot and then the single in-flight slot.
// A full queue is rejected immediately; the wait for the in-flight slot is
// bounded by maxWait (zero: until ctx is done). Returns a release func to be
// deferred.
func (m *Manager) beginGeneration(ctx context.Context) (func(), error) {
	noop := func() {}
	// Fast path: respect an already-canceled context
	if err := ctx.Err(); err != nil {
		return noop, err
	}
	select {
	case m.queueCh <- struct{}{}:
	default:
		return noop, ErrTooBusy("generation queue full")
	}

	acquired := false
	defer func() {
		if !acquired {
			<-m.queueCh
		}
	}()
	var timeout <-chan time.Time
	if m.maxWait > 0 {
		timer := time.NewTimer(m.maxWait)
		defer timer.Stop()
		timeout = timer.C
	}
	select {
	case m.genCh <- struct{}{}:
		acquired = true
		return func() { <-m.genCh; <-m.queueCh }, nil
	case <-ctx.Done():
		return noop, ctx.Err()
	case <-timeout:
		return noop, ErrTooBusy("timed out waiting for generation slot")
	}
}

// QueueStats reports admitted (queued plus in-flight) and in-flight generations.
func (m *Manager) QueueStats() (admitted, inflight, capacity int) {
	return len(m.queueCh), len(m.genCh), cap(m.queueCh)
}
