package app

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"oplhost/hal"
	"oplhost/internal/buildinfo"
	"oplhost/tasks/echo"
)

// NewGuest returns the built-in guest named by cfg.
func NewGuest(cfg Config) (Guest, error) {
	switch cfg.Program.Name {
	case "echo":
		t := echo.New(echo.Config{TickMillis: cfg.Program.TickMillis})
		return GuestFunc(func(io IoHandler) error { return t.Run(io) }), nil
	default:
		return nil, fmt.Errorf("app: unknown program %q", cfg.Program.Name)
	}
}

// NewWithConfig starts the configured guest on h and returns the per-frame
// step function. The step returns hal.ErrStop once the guest has finished
// cleanly.
func NewWithConfig(h hal.HAL, cfg Config) func() error {
	guest, err := NewGuest(cfg)
	if err != nil {
		return fail(err)
	}
	return NewWithGuest(h, cfg, guest)
}

// stopGrace is how long a guest gets to act on Quit when the host run ends
// before its blocked calls are released.
const stopGrace = 200 * time.Millisecond

// NewWithGuest is NewWithConfig with an explicit guest.
func NewWithGuest(h hal.HAL, cfg Config, guest Guest) func() error {
	log := cfg.Logger
	log.Info().
		Str("version", buildinfo.Short()).
		Str("program", cfg.Program.Name).
		Log("starting")

	opts := []Option{
		WithName(cfg.Program.Name),
		WithLogger(log),
		WithClock(h.Clock()),
		WithMainQueue(h.Main()),
	}
	if !cfg.Audio.Mute {
		opts = append(opts, WithAudio(h.Audio()))
	}

	var closers []func() error
	if cfg.Journal.Record != "" {
		f, err := os.Create(cfg.Journal.Record)
		if err != nil {
			return fail(fmt.Errorf("app: journal: %w", err))
		}
		closers = append(closers, f.Close)
		opts = append(opts, WithJournal(f))
	}

	s, err := NewSession(guest, NewConsoleHost(h.Console()), opts...)
	if err != nil {
		closeAll(closers)
		return fail(err)
	}
	if err := s.Start(); err != nil {
		closeAll(closers)
		return fail(err)
	}
	s.SendForeground()

	var closeOnce sync.Once
	release := func() { closeOnce.Do(func() { closeAll(closers) }) }
	h.OnClose(func() {
		ctx, cancel := context.WithTimeout(context.Background(), stopGrace)
		defer cancel()
		if err := s.Stop(ctx); err != nil {
			log.Warning().Err(err).Log("program stopped with error")
		}
		release()
	})

	if cfg.Journal.Replay != "" {
		f, err := os.Open(cfg.Journal.Replay)
		if err != nil {
			ctx, cancel := context.WithTimeout(context.Background(), stopGrace)
			_ = s.Stop(ctx)
			cancel()
			release()
			return fail(fmt.Errorf("app: replay: %w", err))
		}
		closers = append(closers, f.Close)
		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			<-s.Done()
			cancel()
		}()
		go func() {
			if err := Replay(ctx, s, f); err != nil && ctx.Err() == nil {
				log.Err().Err(err).Log("replay failed")
			}
		}()
	}

	in := h.Input()
	finished := false
	return func() error {
		if finished {
			return hal.ErrStop
		}
		s.PumpInput(in)
		select {
		case <-s.Done():
			finished = true
			release()
			if err := s.Err(); err != nil {
				return err
			}
			return hal.ErrStop
		default:
			return nil
		}
	}
}

func fail(err error) func() error {
	return func() error { return err }
}

func closeAll(fns []func() error) {
	for _, fn := range fns {
		_ = fn()
	}
}
