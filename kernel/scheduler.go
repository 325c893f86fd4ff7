package kernel

import (
	"context"
	"fmt"
	"sync"

	"github.com/joeycumines/logiface"

	"oplhost/proto"
)

// Scheduler correlates asynchronous requests with their completions.
//
// The interpreter schedules requests by handle, handlers complete them from
// any goroutine, and the interpreter collects completions in the order they
// happened with WaitForAnyRequest or AnyRequest.
//
// The pending table and the completion queue are guarded by one mutex.
type Scheduler struct {
	handlers map[proto.Kind]Handler
	log      *logiface.Logger[logiface.Event]
	base     context.Context

	mu      sync.Mutex
	pending pendingTable
	done    *Mailbox[proto.Response]
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger used for request tracing.
func WithLogger(l *logiface.Logger[logiface.Event]) Option {
	return func(s *Scheduler) { s.log = l }
}

// WithContext sets the parent of every request context. Cancelling it
// releases handlers that wait on Request.Context.
func WithContext(ctx context.Context) Option {
	return func(s *Scheduler) { s.base = ctx }
}

// NewScheduler builds a scheduler over reg. The registry cannot be changed
// afterwards.
func NewScheduler(reg *Registry, opts ...Option) *Scheduler {
	s := &Scheduler{
		handlers: reg.freeze(),
		base:     context.Background(),
		pending:  make(pendingTable),
	}
	s.done = newMailbox[proto.Response](&s.mu)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule accepts a request and starts its handler.
//
// Scheduling a handle that is still pending, or a kind with no handler,
// panics with a *ProtocolViolation.
func (s *Scheduler) Schedule(handle proto.Handle, typ proto.RequestType) {
	if typ == nil {
		panic(&ProtocolViolation{Op: "schedule", Handle: handle, Reason: "nil request"})
	}
	kind := typ.Kind()
	h, ok := s.handlers[kind]
	if !ok {
		panic(&ProtocolViolation{Op: "schedule", Handle: handle, Kind: kind, Reason: "no handler for request kind"})
	}

	ctx, cancel := context.WithCancel(s.base)
	req := &Request{Handle: handle, Type: typ, s: s, ctx: ctx, cancel: cancel}

	s.mu.Lock()
	inserted := s.pending.insert(req)
	s.mu.Unlock()
	if !inserted {
		cancel()
		panic(&ProtocolViolation{Op: "schedule", Handle: handle, Kind: kind, Reason: "handle already pending"})
	}

	s.log.Debug().Int("handle", int(handle)).Str("kind", kind.String()).Log("request accepted")
	h.Start(req)
}

// Cancel asks the handler of a pending request to stop. It is a no-op for
// handles that are unknown or already completed. The handler decides
// whether the request completes early, later, or not differently at all.
func (s *Scheduler) Cancel(handle proto.Handle) {
	s.mu.Lock()
	p, ok := s.pending.lookup(handle)
	if !ok || p.cancelled {
		s.mu.Unlock()
		return
	}
	p.cancelled = true
	req := p.req
	s.mu.Unlock()

	s.log.Debug().Int("handle", int(handle)).Str("kind", req.Kind().String()).Log("request cancelled")
	req.cancel()
	if hook := s.handlers[req.Kind()].Cancel; hook != nil {
		hook(req)
	}
}

// Complete records value as the outcome of handle. It returns false, and
// drops value, when handle is not pending.
func (s *Scheduler) Complete(handle proto.Handle, value proto.ResponseValue) bool {
	return s.complete(handle, nil, value)
}

func (s *Scheduler) complete(handle proto.Handle, req *Request, value proto.ResponseValue) bool {
	if value == nil {
		value = proto.Completed{}
	}

	s.mu.Lock()
	p, ok := s.pending.remove(handle, req)
	if ok {
		s.done.appendLocked(proto.Response{Handle: handle, Value: value})
	}
	s.mu.Unlock()

	if !ok {
		s.log.Debug().Int("handle", int(handle)).Str("value", proto.Describe(value)).Log("completion dropped")
		return false
	}
	p.req.cancel()
	s.log.Debug().Int("handle", int(handle)).Str("value", proto.Describe(value)).Log("request completed")
	return true
}

// WaitForAnyRequest blocks until a completion is available and returns the
// earliest one.
func (s *Scheduler) WaitForAnyRequest() proto.Response {
	return s.done.TakeFirst()
}

// WaitForAnyRequestContext is WaitForAnyRequest with an abandonable wait.
func (s *Scheduler) WaitForAnyRequestContext(ctx context.Context) (proto.Response, error) {
	resp, err := s.done.TakeFirstContext(ctx)
	if err != nil {
		return proto.Response{}, fmt.Errorf("kernel: wait for request: %w", err)
	}
	return resp, nil
}

// AnyRequest returns the earliest completion without blocking.
func (s *Scheduler) AnyRequest() (proto.Response, bool) {
	return s.done.TryTakeFirst()
}

// Pending reports whether handle is accepted and not yet completed.
func (s *Scheduler) Pending(handle proto.Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending.lookup(handle)
	return ok
}

// PendingCount returns the number of outstanding requests.
func (s *Scheduler) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
