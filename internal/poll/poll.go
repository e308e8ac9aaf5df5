// Package poll runs background refreshes on a fixed interval.
package poll

import (
	"context"
	"time"
)

// Every calls fn immediately and then once per interval until ctx is done.
// A call in progress when ctx is cancelled is allowed to finish.
func Every(ctx context.Context, interval time.Duration, fn func(context.Context)) {
	if ctx.Err() != nil {
		return
	}
	fn(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			fn(ctx)
		}
	}
}
