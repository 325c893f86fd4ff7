package kernel

import (
	"errors"
	"fmt"

	"oplhost/proto"
)

// Handler arranges the eventual completion of one request kind.
//
// Start is called once per accepted request, on the goroutine that scheduled
// it, and must not block for long: anything slow belongs on another
// goroutine. Cancel is optional and is called at most once per request when
// the guest cancels it while it is still pending.
type Handler struct {
	Start  func(*Request)
	Cancel func(*Request)
}

var (
	ErrDuplicateHandler = errors.New("kernel: handler already registered")
	ErrInvalidHandler   = errors.New("kernel: handler has no start function")
	ErrRegistryFrozen   = errors.New("kernel: registry is in use by a scheduler")
)

// Registry maps request kinds to handlers. It is filled in at setup time and
// frozen when a Scheduler is built from it.
type Registry struct {
	handlers map[proto.Kind]Handler
	frozen   bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[proto.Kind]Handler)}
}

// Register adds the handler for kind.
func (r *Registry) Register(kind proto.Kind, h Handler) error {
	if r.frozen {
		return ErrRegistryFrozen
	}
	if h.Start == nil {
		return fmt.Errorf("%w: %s", ErrInvalidHandler, kind)
	}
	if _, ok := r.handlers[kind]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateHandler, kind)
	}
	r.handlers[kind] = h
	return nil
}

// Kinds returns the number of registered kinds.
func (r *Registry) Kinds() int { return len(r.handlers) }

func (r *Registry) freeze() map[proto.Kind]Handler {
	r.frozen = true
	out := make(map[proto.Kind]Handler, len(r.handlers))
	for k, h := range r.handlers {
		out[k] = h
	}
	return out
}
