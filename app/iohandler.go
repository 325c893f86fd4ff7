package app

import (
	"time"

	"oplhost/kernel"
	"oplhost/proto"
	"oplhost/sound"
)

// IoHandler is what the interpreter calls into. All methods are called from
// the guest goroutine.
type IoHandler interface {
	// AsyncRequest starts a request. Reusing a handle that is still pending
	// is a protocol violation and aborts the program.
	AsyncRequest(handle proto.Handle, req proto.RequestType)
	// CancelRequest asks a pending request to finish early. It is a no-op
	// for unknown or completed handles.
	CancelRequest(handle proto.Handle)
	// WaitForAnyRequest blocks until some request completes.
	WaitForAnyRequest() proto.Response
	// AnyRequest returns a completed request if one is ready.
	AnyRequest() (proto.Response, bool)
	// TestEvent reports whether host events are queued.
	TestEvent() bool
	// Key removes the next queued key press, leaving other events queued.
	Key() (proto.KeyCode, bool)

	PrintValue(s string)
	Alert(lines, buttons []string) int
	Beep(freqKHz float64, d time.Duration)
}

var _ IoHandler = (*Session)(nil)

func (s *Session) AsyncRequest(handle proto.Handle, req proto.RequestType) {
	s.sched.Schedule(handle, req)
}

func (s *Session) CancelRequest(handle proto.Handle) {
	s.sched.Cancel(handle)
}

func (s *Session) WaitForAnyRequest() proto.Response {
	resp, err := s.sched.WaitForAnyRequestContext(s.ctx)
	s.checkStopped(err)
	return resp
}

func (s *Session) AnyRequest() (proto.Response, bool) {
	return s.sched.AnyRequest()
}

func (s *Session) TestEvent() bool {
	return !s.events.IsEmpty()
}

func (s *Session) Key() (proto.KeyCode, bool) {
	ev, ok := s.events.FirstMatching(proto.IsKeyPress)
	if !ok {
		return 0, false
	}
	return ev.(proto.KeyPress).Keycode, true
}

func (s *Session) PrintValue(v string) {
	s.onMain(func() { s.host.PrintValue(v) })
}

// Alert shows a message on the UI goroutine and blocks until the user picks
// a button. It returns the 1-based button index.
func (s *Session) Alert(lines, buttons []string) int {
	choice, err := kernel.CallContext(s.ctx, func(reply func(int)) {
		s.post(func() { s.host.Alert(lines, buttons, reply) })
	})
	s.checkStopped(err)
	return choice
}

// Beep plays a tone synchronously. freqKHz is in kilohertz.
func (s *Session) Beep(freqKHz float64, d time.Duration) {
	if err := sound.Beep(s.ctx, s.audio, freqKHz*1000, d); err != nil {
		s.log.Warning().Err(err).Log("beep failed")
		s.host.Error(err)
	}
}

// post runs fn on the UI goroutine, or inline when there is none.
func (s *Session) post(fn func()) {
	if s.main == nil {
		fn()
		return
	}
	s.main.Post(fn)
}

// onMain runs fn on the UI goroutine and waits for it.
func (s *Session) onMain(fn func()) {
	if s.main == nil {
		fn()
		return
	}
	_, err := kernel.CallContext(s.ctx, func(reply func(struct{})) {
		s.main.Post(func() {
			fn()
			reply(struct{}{})
		})
	})
	s.checkStopped(err)
}
