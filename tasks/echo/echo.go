// Package echo is a small guest program that exercises the request
// protocol: it waits for input and a periodic timer at the same time, plays
// a sound on Enter and shows an alert on Menu.
package echo

import (
	"bytes"
	"fmt"
	"time"

	"oplhost/proto"
	"oplhost/sound"
)

// IO is the part of the session interface the task uses.
type IO interface {
	AsyncRequest(handle proto.Handle, req proto.RequestType)
	CancelRequest(handle proto.Handle)
	WaitForAnyRequest() proto.Response
	TestEvent() bool
	PrintValue(s string)
	Alert(lines, buttons []string) int
}

const (
	hEvent proto.Handle = iota + 1
	hTick
	hSound
)

type Config struct {
	TickMillis int
	// MaxTicks ends the program after this many timer ticks; zero means
	// never.
	MaxTicks int
}

type Task struct {
	cfg   Config
	chime []byte

	ticks   int
	pending map[proto.Handle]bool
}

func New(cfg Config) *Task {
	if cfg.TickMillis <= 0 {
		cfg.TickMillis = 1000
	}
	return &Task{cfg: cfg, chime: Chime()}
}

// Chime returns a short WVE sound.
func Chime() []byte {
	pcm := sound.Tone(sound.SampleRate, 880, 150*time.Millisecond)
	var buf bytes.Buffer
	_ = sound.WriteWVE(&buf, sound.Header{}, sound.EncodeALawSamples(pcm))
	return buf.Bytes()
}

func (t *Task) request(io IO, h proto.Handle, req proto.RequestType) {
	io.AsyncRequest(h, req)
	t.pending[h] = true
}

// Run is the program body.
func (t *Task) Run(io IO) error {
	t.pending = make(map[proto.Handle]bool)
	io.PrintValue("echo: keys are echoed, Enter plays a sound, Menu shows an alert, Esc quits\n")
	if io.TestEvent() {
		io.PrintValue("echo: input already queued\n")
	}

	t.request(io, hEvent, proto.GetEvent{})
	t.request(io, hTick, proto.Sleep{Millis: t.cfg.TickMillis})

	for {
		resp := io.WaitForAnyRequest()
		delete(t.pending, resp.Handle)

		switch resp.Handle {
		case hTick:
			t.ticks++
			if t.cfg.MaxTicks > 0 && t.ticks >= t.cfg.MaxTicks {
				io.PrintValue(fmt.Sprintf("echo: %d ticks\n", t.ticks))
				return t.shutdown(io)
			}
			t.request(io, hTick, proto.Sleep{Millis: t.cfg.TickMillis})

		case hSound:
			io.PrintValue("echo: sound done\n")

		case hEvent:
			if t.handleEvent(io, resp.Value) {
				return t.shutdown(io)
			}
			t.request(io, hEvent, proto.GetEvent{})

		default:
			return fmt.Errorf("echo: unexpected completion %v", resp)
		}
	}
}

// handleEvent reports whether the program should exit.
func (t *Task) handleEvent(io IO, v proto.ResponseValue) bool {
	switch ev := v.(type) {
	case proto.Quit:
		return true
	case proto.KeyPress:
		switch ev.Keycode {
		case proto.KeyEscape:
			return true
		case proto.KeyEnter:
			if !t.pending[hSound] {
				t.request(io, hSound, proto.PlaySound{Data: t.chime})
			}
		case proto.KeyMenu:
			choice := io.Alert([]string{"echo", fmt.Sprintf("%d ticks so far", t.ticks)}, []string{"OK", "Quit"})
			return choice == 2
		default:
			io.PrintValue(fmt.Sprintf("key %d\n", ev.Keycode))
		}
	case proto.PenEvent:
		if ev.Phase != proto.PenPhaseDrag {
			io.PrintValue(fmt.Sprintf("pen %s %d,%d\n", ev.Phase, ev.X, ev.Y))
		}
	}
	return false
}

// shutdown cancels what is still outstanding and collects every remaining
// completion so no request outlives the program.
func (t *Task) shutdown(io IO) error {
	for h := range t.pending {
		io.CancelRequest(h)
	}
	for len(t.pending) > 0 {
		resp := io.WaitForAnyRequest()
		delete(t.pending, resp.Handle)
	}
	io.PrintValue("echo: bye\n")
	return nil
}
