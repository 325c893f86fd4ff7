package kernel

import (
	"fmt"
	"runtime/debug"
)

// PanicInfo contains details about a recovered panic.
type PanicInfo struct {
	Value any
	Stack []byte
}

func (p *PanicInfo) Error() string {
	return fmt.Sprintf("panic: %v", p.Value)
}

// Unwrap exposes the panic value when it is an error, so callers can match
// ErrProtocolViolation with errors.Is.
func (p *PanicInfo) Unwrap() error {
	if err, ok := p.Value.(error); ok {
		return err
	}
	return nil
}

// Guard runs fn, converting a panic into a *PanicInfo error.
func Guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicInfo{Value: r, Stack: debug.Stack()}
		}
	}()
	return fn()
}
