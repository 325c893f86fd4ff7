package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joeycumines/logiface"

	"oplhost/kernel"
)

// reportPanic logs a recovered guest panic with its stack and shows a short
// summary on the host.
func reportPanic(log *logiface.Logger[logiface.Event], host HostCallbacks, info *kernel.PanicInfo) {
	log.Crit().Str("panic", info.Error()).Log("program panicked")
	if len(info.Stack) > 0 {
		for _, line := range strings.Split(string(info.Stack), "\n") {
			if line == "" {
				continue
			}
			log.Debug().Str("stack", line).Log("panic stack")
		}
	}

	msg := "program panic: " + fmt.Sprint(info.Value)
	if pv, ok := info.Value.(*kernel.ProtocolViolation); ok {
		msg = "protocol violation: " + pv.Reason
	}
	host.Error(errors.New(msg))
}
