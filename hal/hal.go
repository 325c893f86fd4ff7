package hal

import (
	"errors"
	"time"
)

var ErrNotImplemented = errors.New("not implemented")

// Console is the text surface a guest prints to.
type Console interface {
	WriteLineString(s string)
	// Lines returns the most recent lines, oldest first.
	Lines() []string
}

// KeyCode is a host key identifier. Printable keys use KeyRune and carry
// the character in KeyEvent.Rune.
type KeyCode uint16

const (
	KeyUnknown KeyCode = iota
	KeyRune
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyTab
	KeyDelete
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyMenu
)

// Modifiers is the set of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModCapsLock
)

// KeyEvent is a keyboard event.
//
// Text input arrives as a single Press with Code KeyRune; there is no
// matching release for it.
type KeyEvent struct {
	Code   KeyCode
	Press  bool
	Repeat bool
	Rune   rune
	Mods   Modifiers
}

// Keyboard provides key events (best-effort on each platform).
type Keyboard interface {
	Events() <-chan KeyEvent
}

// PointerPhase is the state change reported by a PointerEvent.
type PointerPhase uint8

const (
	PointerDown PointerPhase = iota + 1
	PointerMove
	PointerUp
)

// PointerEvent is a primary-button pointer event in screen coordinates.
type PointerEvent struct {
	Phase PointerPhase
	X, Y  int
	Mods  Modifiers
}

// Pointer provides pointer events.
type Pointer interface {
	Events() <-chan PointerEvent
}

// Input provides access to input devices (if available).
type Input interface {
	Keyboard() Keyboard
	Pointer() Pointer
}

// AudioOut is a mono 16-bit sample sink.
type AudioOut interface {
	// Start prepares output at sampleRate. Calling Start again resets any
	// queued samples.
	Start(sampleRate uint32) error
	Stop() error
	SetVolume(vol uint8)
	// WriteSample queues one sample, blocking while the buffer is full.
	WriteSample(sample int16)
	// PendingSamples returns the number of queued samples not yet played.
	PendingSamples() int
}

// Audio provides access to sound output.
type Audio interface {
	// Out returns nil when the host has no audio device.
	Out() AudioOut
	// SampleRate is the fixed output rate of Out.
	SampleRate() uint32
}

// Clock is the host time source.
type Clock interface {
	Now() time.Time
	// Since returns the time elapsed since the host started.
	Since() time.Duration
}

// HAL provides the only contact point between the emulator and the outside
// world.
type HAL interface {
	Console() Console
	Input() Input
	Audio() Audio
	Clock() Clock
	// Main returns the queue of work that must run on the UI goroutine.
	Main() *MainQueue
	// OnClose registers fn to run when the host run ends, after the last
	// step and before the audio device is stopped. Hooks run in reverse
	// registration order.
	OnClose(fn func())
}
