package ledger

import (
	"context"
	"sync"
	"time"
)

// SystemClock is the production types.Clock/types.Timer, backed by the
// wall clock and time.Ticker.
type SystemClock struct{}

func (SystemClock) NowNs() int64 {
	return time.Now().UnixNano()
}

// Every runs cb on a ticker of the given period until the returned stop
// function is called or ctx is cancelled, mirroring the original
// canister's recurring-timer backup snapshot trigger.
func (SystemClock) Every(ctx context.Context, period time.Duration, cb func(context.Context)) func() {
	ticker := time.NewTicker(period)
	done := make(chan struct{})

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				cb(ctx)
			case <-ctx.Done():
				return
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}
