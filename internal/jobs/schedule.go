package jobs

import (
	"context"
	"time"

	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/contract"
)

// Every submits fn to runner right away and then on every tick of interval,
// until ctx is done. A failed run is logged by the runner and retried on the
// next tick. It returns the number of submissions.
func Every(ctx context.Context, interval time.Duration, runner contract.JobRunner, name string, fn func(ctx context.Context) error) int {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	runner.Submit(name, fn)
	n := 1
	for {
		select {
		case <-ctx.Done():
			return n
		case <-ticker.C:
			runner.Submit(name, fn)
			n++
		}
	}
}
