//go:build cgo

package hal

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// hostAudio plays samples through Ebiten's audio package. The Ebiten
// context rate is fixed for the life of the process, so callers resample
// to SampleRate first.
type hostAudio struct {
	out *hostAudioOut
}

func newHostAudio(sampleRate uint32) Audio {
	return hostAudio{out: &hostAudioOut{rate: sampleRate, vol: 255}}
}

func (a hostAudio) Out() AudioOut      { return a.out }
func (a hostAudio) SampleRate() uint32 { return a.out.rate }

type hostAudioOut struct {
	mu     sync.Mutex
	rate   uint32
	ctx    *audio.Context
	player *audio.Player
	ring   *sampleRing
	vol    uint8
}

func (a *hostAudioOut) Start(sampleRate uint32) error {
	if sampleRate != a.rate {
		return fmt.Errorf("host audio: rate %d, want %d", sampleRate, a.rate)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.ctx == nil {
		// There is at most one audio context per process.
		if c := audio.CurrentContext(); c != nil {
			if c.SampleRate() != int(a.rate) {
				return fmt.Errorf("host audio: context rate %d, want %d", c.SampleRate(), a.rate)
			}
			a.ctx = c
		} else {
			a.ctx = audio.NewContext(int(a.rate))
		}
	}
	if a.ring == nil {
		a.ring = newSampleRing(ringSize(a.rate))
	}
	if a.player != nil {
		_ = a.player.Close()
		a.player = nil
	}
	a.ring.reset()

	p, err := a.ctx.NewPlayer(&hostAudioReader{ring: a.ring})
	if err != nil {
		return fmt.Errorf("host audio: new player: %w", err)
	}
	p.SetBufferSize(100 * time.Millisecond)
	p.SetVolume(float64(a.vol) / 255.0)
	p.Play()
	a.player = p
	return nil
}

func (a *hostAudioOut) Stop() error {
	a.mu.Lock()
	p := a.player
	a.player = nil
	if a.ring != nil {
		a.ring.close()
	}
	a.mu.Unlock()

	if p != nil {
		return p.Close()
	}
	return nil
}

func (a *hostAudioOut) SetVolume(vol uint8) {
	a.mu.Lock()
	a.vol = vol
	p := a.player
	a.mu.Unlock()

	if p != nil {
		p.SetVolume(float64(vol) / 255.0)
	}
}

func (a *hostAudioOut) WriteSample(sample int16) {
	a.mu.Lock()
	rb := a.ring
	a.mu.Unlock()
	if rb == nil {
		return
	}
	rb.write(sample)
}

func (a *hostAudioOut) PendingSamples() int {
	a.mu.Lock()
	rb := a.ring
	a.mu.Unlock()
	if rb == nil {
		return 0
	}
	return rb.pending()
}

type hostAudioReader struct {
	ring    *sampleRing
	scratch []int16
}

// Read produces 16-bit little-endian stereo, duplicating the mono channel.
// An empty ring plays silence so the player keeps running between sounds.
func (r *hostAudioReader) Read(p []byte) (int, error) {
	frames := len(p) / 4
	if cap(r.scratch) < frames {
		r.scratch = make([]int16, frames)
	}
	buf := r.scratch[:frames]
	n, ok := r.ring.read(buf, false)
	if !ok {
		return 0, io.EOF
	}
	for i := n; i < frames; i++ {
		buf[i] = 0
	}
	for i, s := range buf {
		p[i*4+0] = byte(s)
		p[i*4+1] = byte(s >> 8)
		p[i*4+2] = byte(s)
		p[i*4+3] = byte(s >> 8)
	}
	return frames * 4, nil
}
