package kernel

import (
	"errors"
	"fmt"

	"oplhost/proto"
)

// ErrProtocolViolation is matched by every *ProtocolViolation.
var ErrProtocolViolation = errors.New("protocol violation")

// ProtocolViolation is the panic value raised when the interpreter breaks the
// request protocol. It indicates a bug in the integration, not a runtime
// condition, so the owning session is expected to abort.
type ProtocolViolation struct {
	Op     string
	Handle proto.Handle
	Kind   proto.Kind
	Reason string
}

func (v *ProtocolViolation) Error() string {
	return fmt.Sprintf("%s: %s handle=%d kind=%s: %s", ErrProtocolViolation, v.Op, v.Handle, v.Kind, v.Reason)
}

func (v *ProtocolViolation) Unwrap() error { return ErrProtocolViolation }
