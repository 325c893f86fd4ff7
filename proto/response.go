package proto

import (
	"fmt"
	"time"
)

// ResponseValue is the outcome delivered for a completed request.
//
// It is either Cancelled, Completed, or a host-originated event. The set of
// variants is closed.
type ResponseValue interface {
	responseValue()
}

// Response pairs a completed request handle with its outcome.
type Response struct {
	Handle Handle
	Value  ResponseValue
}

func (r Response) String() string {
	return fmt.Sprintf("%d:%s", r.Handle, Describe(r.Value))
}

// Cancelled reports that the handler honoured a cancellation.
type Cancelled struct{}

// Completed reports plain completion of a request with no event payload.
type Completed struct{}

// KeyPress is a translated key stroke.
type KeyPress struct {
	Timestamp time.Duration // Since session start.
	Keycode   KeyCode
	Modifiers Modifiers
	IsRepeat  bool
}

// KeyDown is a physical key going down.
type KeyDown struct {
	Timestamp time.Duration
	Keycode   KeyCode
	Modifiers Modifiers
}

// KeyUp is a physical key being released.
type KeyUp struct {
	Timestamp time.Duration
	Keycode   KeyCode
	Modifiers Modifiers
}

// PenPhase is the pointer phase carried by PenEvent.
type PenPhase int

const (
	PenPhaseDown PenPhase = 0
	PenPhaseUp   PenPhase = 1
	PenPhaseDrag PenPhase = 6
)

func (p PenPhase) String() string {
	switch p {
	case PenPhaseDown:
		return "down"
	case PenPhaseUp:
		return "up"
	case PenPhaseDrag:
		return "drag"
	default:
		return "unknown"
	}
}

// PenEvent is a pointer event on a guest window.
type PenEvent struct {
	Timestamp time.Duration
	WindowID  int
	Phase     PenPhase
	Modifiers Modifiers
	X, Y      int
	ScreenX   int
	ScreenY   int
}

// PenDown is sent when the pointer first touches a window.
type PenDown struct {
	Timestamp time.Duration
	WindowID  int
}

// PenUp is sent when the pointer leaves the screen.
type PenUp struct {
	Timestamp time.Duration
	WindowID  int
}

// Foregrounded is sent when the program gains focus.
type Foregrounded struct {
	Timestamp time.Duration
}

// Backgrounded is sent when the program loses focus.
type Backgrounded struct {
	Timestamp time.Duration
}

// Quit asks the program to exit.
type Quit struct{}

// Interrupt asks the program to stop what it is doing.
type Interrupt struct{}

func (Cancelled) responseValue()    {}
func (Completed) responseValue()    {}
func (KeyPress) responseValue()     {}
func (KeyDown) responseValue()      {}
func (KeyUp) responseValue()        {}
func (PenEvent) responseValue()     {}
func (PenDown) responseValue()      {}
func (PenUp) responseValue()        {}
func (Foregrounded) responseValue() {}
func (Backgrounded) responseValue() {}
func (Quit) responseValue()         {}
func (Interrupt) responseValue()    {}

// IsKeyPress reports whether v is a KeyPress. It is the predicate used for
// keypress lookahead.
func IsKeyPress(v ResponseValue) bool {
	_, ok := v.(KeyPress)
	return ok
}

// Describe returns a short human readable form of v for logs.
func Describe(v ResponseValue) string {
	switch e := v.(type) {
	case nil:
		return "<nil>"
	case Cancelled:
		return "cancelled"
	case Completed:
		return "completed"
	case KeyPress:
		if e.IsRepeat {
			return fmt.Sprintf("keypress(%d,%#x,repeat)", e.Keycode, uint32(e.Modifiers))
		}
		return fmt.Sprintf("keypress(%d,%#x)", e.Keycode, uint32(e.Modifiers))
	case KeyDown:
		return fmt.Sprintf("keydown(%d)", e.Keycode)
	case KeyUp:
		return fmt.Sprintf("keyup(%d)", e.Keycode)
	case PenEvent:
		return fmt.Sprintf("pen(%s,win=%d,%d,%d)", e.Phase, e.WindowID, e.X, e.Y)
	case PenDown:
		return fmt.Sprintf("pendown(win=%d)", e.WindowID)
	case PenUp:
		return fmt.Sprintf("penup(win=%d)", e.WindowID)
	case Foregrounded:
		return "foreground"
	case Backgrounded:
		return "background"
	case Quit:
		return "quit"
	case Interrupt:
		return "interrupt"
	default:
		return fmt.Sprintf("%T", v)
	}
}
