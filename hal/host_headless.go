package hal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrStop may be returned by a step function to end a run cleanly.
var ErrStop = errors.New("hal: stop")

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled bool
	Hz      int
	// Ticks stops the run after this many steps; zero runs until the
	// context is done or the step function returns ErrStop.
	Ticks uint64
}

// RunHeadless runs the emulator without opening a window. Console output
// goes to stdout unless cfg names another writer.
func RunHeadless(ctx context.Context, cfg Config, newApp func(HAL) func() error, hcfg HeadlessConfig) error {
	if hcfg.Hz <= 0 {
		hcfg.Hz = 60
	}
	d := time.Second / time.Duration(hcfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", hcfg.Hz)
	}

	h := newHeadlessHost(stdoutConsole(cfg))
	step := newApp(h)

	g, gctx := errgroup.WithContext(ctx)
	loopDone := make(chan struct{})
	g.Go(func() error {
		defer close(loopDone)
		return runSteps(gctx, h, step, d, hcfg.Ticks)
	})
	g.Go(func() error {
		// Unblock guest goroutines stuck on the audio ring once the loop
		// ends for any reason.
		select {
		case <-gctx.Done():
		case <-loopDone:
		}
		return h.close()
	})

	err := g.Wait()
	if errors.Is(err, ErrStop) {
		return nil
	}
	return err
}

func runSteps(ctx context.Context, h *hostHAL, step func() error, d time.Duration, limit uint64) error {
	t := time.NewTicker(d)
	defer t.Stop()

	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			h.main.Drain()
			if step != nil {
				if err := step(); err != nil {
					return err
				}
			}
			tick++
			if limit > 0 && tick >= limit {
				return nil
			}
		}
	}
}
