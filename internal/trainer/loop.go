package trainer

import (
	"context"
	"time"

	"github.com/Cromyyx/shellshock-trainer-wind/internal/platform"
)

// DefaultTick is the polling interval of the control loop.
const DefaultTick = 10 * time.Millisecond

// Run polls h every tick until ctx is done. Cancellation is only observed
// between ticks; a running search always completes.
func Run(ctx context.Context, s *Session, h platform.Handle, tick time.Duration) error {
	if tick <= 0 {
		tick = DefaultTick
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Tick(h)
		}
	}
}
