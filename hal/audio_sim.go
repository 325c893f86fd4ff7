package hal

import (
	"fmt"
	"sync"
	"time"
)

const simulatedAudioPeriod = 10 * time.Millisecond

// simulatedAudioOut discards samples at the real-time rate.
type simulatedAudioOut struct {
	rate uint32
	ring *sampleRing

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

type simulatedAudio struct {
	out *simulatedAudioOut
}

func (a simulatedAudio) Out() AudioOut      { return a.out }
func (a simulatedAudio) SampleRate() uint32 { return a.out.rate }

// NewSimulatedAudioOut returns an AudioOut that plays nothing but takes real
// time to drain.
func NewSimulatedAudioOut(sampleRate uint32) AudioOut {
	return newSimulatedAudioOut(sampleRate)
}

func newSimulatedAudioOut(sampleRate uint32) *simulatedAudioOut {
	return &simulatedAudioOut{rate: sampleRate, ring: newSampleRing(ringSize(sampleRate))}
}

func (a *simulatedAudioOut) Start(sampleRate uint32) error {
	if sampleRate != a.rate {
		return fmt.Errorf("simulated audio: rate %d, want %d", sampleRate, a.rate)
	}
	a.halt()
	a.ring.reset()

	a.mu.Lock()
	a.stop = make(chan struct{})
	a.done = make(chan struct{})
	go a.drain(a.stop, a.done)
	a.mu.Unlock()
	return nil
}

func (a *simulatedAudioOut) Stop() error {
	a.halt()
	a.ring.close()
	return nil
}

func (a *simulatedAudioOut) halt() {
	a.mu.Lock()
	stop, done := a.stop, a.done
	a.stop, a.done = nil, nil
	a.mu.Unlock()
	if stop != nil {
		close(stop)
		<-done
	}
}

func (a *simulatedAudioOut) SetVolume(uint8) {}

func (a *simulatedAudioOut) WriteSample(sample int16) { a.ring.write(sample) }

func (a *simulatedAudioOut) PendingSamples() int { return a.ring.pending() }

func (a *simulatedAudioOut) drain(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	t := time.NewTicker(simulatedAudioPeriod)
	defer t.Stop()

	per := int(uint64(a.rate) * uint64(simulatedAudioPeriod) / uint64(time.Second))
	if per < 1 {
		per = 1
	}
	scratch := make([]int16, per)
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			if _, ok := a.ring.read(scratch, false); !ok {
				return
			}
		}
	}
}
