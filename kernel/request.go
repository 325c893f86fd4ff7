package kernel

import (
	"context"

	"oplhost/proto"
)

// Request is an accepted request as seen by its handler.
type Request struct {
	Handle proto.Handle
	Type   proto.RequestType

	s      *Scheduler
	ctx    context.Context
	cancel context.CancelFunc
}

// Kind returns the request kind.
func (r *Request) Kind() proto.Kind { return r.Type.Kind() }

// Context is done once the request is cancelled, completed, or the scheduler
// is shut down. Handlers that wait may use it to give up early.
func (r *Request) Context() context.Context { return r.ctx }

// Cancelled reports whether the guest asked to cancel this request while it
// was pending.
func (r *Request) Cancelled() bool {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.pending.lookup(r.Handle)
	return ok && p.req == r && p.cancelled
}

// Complete records the outcome of this request. It returns false if the
// request already completed; the value is then dropped.
func (r *Request) Complete(v proto.ResponseValue) bool {
	return r.s.complete(r.Handle, r, v)
}
