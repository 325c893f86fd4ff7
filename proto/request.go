package proto

import (
	"math"
	"time"
)

// RequestType is the payload of an asynchronous request.
type RequestType interface {
	Kind() Kind
}

// GetEvent completes with the next host event from the session input queue.
type GetEvent struct{}

// Sleep completes after Millis milliseconds.
type Sleep struct {
	Millis int
}

// PlaySound completes once Data has finished playing (or failed to).
type PlaySound struct {
	Data []byte
}

// KeyA completes with the next key press, leaving other events queued.
type KeyA struct{}

// After completes once Duration has elapsed.
type After struct {
	Duration time.Duration
}

// At completes at the absolute wall-clock Time.
type At struct {
	Time time.Time
}

func (GetEvent) Kind() Kind  { return KindGetEvent }
func (Sleep) Kind() Kind     { return KindSleep }
func (PlaySound) Kind() Kind { return KindPlaySound }
func (KeyA) Kind() Kind      { return KindKeyA }
func (After) Kind() Kind     { return KindAfter }
func (At) Kind() Kind        { return KindAt }

// Delay returns how long a timer-backed request should wait, measured from now.
//
// Negative and past values clamp to zero; delays too long for a
// time.Duration saturate. ok is false for kinds that are not
// timers.
func Delay(req RequestType, now time.Time) (d time.Duration, ok bool) {
	switch r := req.(type) {
	case Sleep:
		if int64(r.Millis) > math.MaxInt64/int64(time.Millisecond) {
			return math.MaxInt64, true
		}
		d = time.Duration(r.Millis) * time.Millisecond
	case After:
		d = r.Duration
	case At:
		d = r.Time.Sub(now)
	default:
		return 0, false
	}
	if d < 0 {
		d = 0
	}
	return d, true
}
