package app

import (
	"time"

	"oplhost/kernel"
	"oplhost/proto"
	"oplhost/sound"
)

func (s *Session) registerHandlers(reg *kernel.Registry) error {
	timer := kernel.Handler{Start: s.startTimer}
	handlers := []struct {
		kind proto.Kind
		h    kernel.Handler
	}{
		{proto.KindGetEvent, kernel.Handler{Start: s.startGetEvent}},
		{proto.KindKeyA, kernel.Handler{Start: s.startKeyA}},
		{proto.KindSleep, timer},
		{proto.KindAfter, timer},
		{proto.KindAt, timer},
		{proto.KindPlaySound, kernel.Handler{Start: s.startPlaySound, Cancel: s.cancelPlaySound}},
	}
	for _, e := range handlers {
		if err := reg.Register(e.kind, e.h); err != nil {
			return err
		}
	}
	return nil
}

// startGetEvent completes with the next queued host event. A cancelled
// request completes with Cancelled and leaves the queue untouched.
func (s *Session) startGetEvent(r *kernel.Request) {
	go s.takeEvent(r, nil)
}

// startKeyA completes with the next key press, skipping over (and keeping)
// any other queued events.
func (s *Session) startKeyA(r *kernel.Request) {
	go s.takeEvent(r, proto.IsKeyPress)
}

func (s *Session) takeEvent(r *kernel.Request, pred func(proto.ResponseValue) bool) {
	ev, err := s.events.TakeFirstMatchingContext(r.Context(), pred)
	if err != nil {
		if r.Cancelled() {
			r.Complete(proto.Cancelled{})
		}
		return
	}
	r.Complete(ev)
}

func (s *Session) startTimer(r *kernel.Request) {
	d, _ := proto.Delay(r.Type, s.clock.Now())
	go func() {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-t.C:
			r.Complete(proto.Completed{})
		case <-r.Context().Done():
			if r.Cancelled() {
				r.Complete(proto.Cancelled{})
			}
		}
	}()
}

// startPlaySound plays on a worker goroutine. Playback errors are logged
// and the request still completes, since the guest has no way to receive
// them.
func (s *Session) startPlaySound(r *kernel.Request) {
	req, _ := r.Type.(proto.PlaySound)
	go func() {
		start := time.Now()
		if err := sound.PlayData(s.ctx, s.audio, req.Data); err != nil {
			s.log.Warning().
				Int("handle", int(r.Handle)).
				Err(err).
				Log("play sound failed")
		} else {
			s.log.Debug().
				Int("handle", int(r.Handle)).
				Dur("took", time.Since(start)).
				Log("sound played")
		}
		r.Complete(proto.Completed{})
	}()
}

// cancelPlaySound does not interrupt playback; the request completes when
// the sound ends.
func (s *Session) cancelPlaySound(r *kernel.Request) {
	s.log.Debug().Int("handle", int(r.Handle)).Log("play sound cancel ignored")
}
