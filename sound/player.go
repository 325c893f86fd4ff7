package sound

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"oplhost/hal"
)

// ErrNoDevice is returned when the host has no audio output.
var ErrNoDevice = errors.New("sound: no audio device")

const (
	drainPoll = 10 * time.Millisecond
	// ctxCheckEvery is how many samples are written between context checks.
	ctxCheckEvery = 256
)

// devices holds one playback slot per AudioOut. A device plays one sound
// at a time; later sounds wait for the slot.
var devices sync.Map // hal.AudioOut -> chan struct{}

func acquire(ctx context.Context, out hal.AudioOut) (release func(), err error) {
	v, _ := devices.LoadOrStore(out, make(chan struct{}, 1))
	slot := v.(chan struct{})
	select {
	case slot <- struct{}{}:
		return func() { <-slot }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// clip is a sound ready for a device: pcm at the device rate, played
// repeats times and followed by silence samples.
type clip struct {
	pcm     []int16
	repeats int
	silence int
}

// Play streams pcm, recorded at srcRate, to the host audio device and
// returns once it has drained. Sounds on the same device play one after
// the other. The wait is abandoned when ctx is done.
func Play(ctx context.Context, audio hal.Audio, pcm []int16, srcRate int) error {
	if audio == nil || audio.Out() == nil {
		return ErrNoDevice
	}
	return play(ctx, audio, clip{pcm: Resample(pcm, srcRate, int(audio.SampleRate())), repeats: 1})
}

// PlayData decodes guest sound data (optional WVE header, 8 kHz A-law)
// and plays it. Repeats and trailing silence are streamed, never expanded
// in memory.
func PlayData(ctx context.Context, audio hal.Audio, data []byte) error {
	h, payload, err := Split(data)
	if err != nil {
		return err
	}
	if audio == nil || audio.Out() == nil {
		return ErrNoDevice
	}
	rate := int(audio.SampleRate())
	return play(ctx, audio, clip{
		pcm:     Resample(DecodeALawSamples(payload), SampleRate, rate),
		repeats: max(int(h.Repeats), 1),
		silence: int(h.TrailingSilence) * rate / 32,
	})
}

// Beep plays a sine tone of freq Hz for d.
func Beep(ctx context.Context, audio hal.Audio, freq float64, d time.Duration) error {
	if audio == nil || audio.Out() == nil {
		return ErrNoDevice
	}
	rate := int(audio.SampleRate())
	return play(ctx, audio, clip{pcm: Tone(rate, freq, d), repeats: 1})
}

func play(ctx context.Context, audio hal.Audio, c clip) error {
	if len(c.pcm) == 0 && c.silence == 0 {
		return nil
	}
	out := audio.Out()
	release, err := acquire(ctx, out)
	if err != nil {
		return err
	}
	defer release()

	if err := out.Start(audio.SampleRate()); err != nil {
		return fmt.Errorf("sound: start output: %w", err)
	}

	n := 0
	write := func(s int16) error {
		if n%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				_ = out.Stop()
				return err
			}
		}
		n++
		out.WriteSample(s)
		return nil
	}
	for r := 0; r < c.repeats && len(c.pcm) > 0; r++ {
		for _, s := range c.pcm {
			if err := write(s); err != nil {
				return err
			}
		}
	}
	for i := 0; i < c.silence; i++ {
		if err := write(0); err != nil {
			return err
		}
	}
	return waitDrain(ctx, out)
}

func waitDrain(ctx context.Context, out hal.AudioOut) error {
	t := time.NewTicker(drainPoll)
	defer t.Stop()
	for out.PendingSamples() > 0 {
		select {
		case <-ctx.Done():
			_ = out.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
	return nil
}
