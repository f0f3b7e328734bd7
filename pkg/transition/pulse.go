package transition

import (
	"context"
	"math"
	"time"
)

// PulseOptions shapes the pulse loop.
type PulseOptions struct {
	Period    time.Duration // one grow/shrink cycle, default 1.5s
	Amplitude float64       // peak extra scale, default 0.3
	Frame     time.Duration // default DefaultFrameInterval
}

// Pulse calls fn with a scale cycling between 1 and 1+Amplitude until ctx
// is done, then calls fn(1) once to restore the resting size.
func Pulse(ctx context.Context, opts PulseOptions, fn func(scale float64)) {
	if opts.Period <= 0 {
		opts.Period = 1500 * time.Millisecond
	}
	if opts.Amplitude <= 0 {
		opts.Amplitude = 0.3
	}
	if opts.Frame <= 0 {
		opts.Frame = DefaultFrameInterval
	}

	ticker := time.NewTicker(opts.Frame)
	defer ticker.Stop()
	start := time.Now()

	for {
		select {
		case <-ctx.Done():
			fn(1)
			return
		case now := <-ticker.C:
			fn(PulseScale(now.Sub(start), opts.Period, opts.Amplitude))
		}
	}
}

// PulseScale returns the scale at elapsed time t: 1 at the start of each
// period, 1+amplitude halfway through.
func PulseScale(t, period time.Duration, amplitude float64) float64 {
	phase := float64(t%period) / float64(period)
	return 1 + amplitude*(1-math.Cos(2*math.Pi*phase))/2
}
