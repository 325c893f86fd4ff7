package app

import (
	"fmt"
	"strings"
	"sync"

	"oplhost/hal"
)

// HostCallbacks is the narrow set of UI services a session needs. PrintValue
// and Alert are called on the UI goroutine when the session has a main
// queue. Alert must call reply exactly once, possibly later.
type HostCallbacks interface {
	PrintValue(s string)
	Alert(lines, buttons []string, reply func(int))
	// Error reports a non-fatal host failure.
	Error(err error)
	// Finished is called once when the guest ends; err is nil on success.
	Finished(err error)
}

// ConsoleHost implements HostCallbacks on a text console. Alerts are
// printed and answered with DefaultButton.
type ConsoleHost struct {
	Console       hal.Console
	DefaultButton int

	mu      sync.Mutex
	partial strings.Builder
}

// NewConsoleHost returns a ConsoleHost that answers alerts with the first
// button.
func NewConsoleHost(c hal.Console) *ConsoleHost {
	return &ConsoleHost{Console: c, DefaultButton: 1}
}

// PrintValue appends text to the console. Output is split on newlines; a
// trailing partial line is held until completed.
func (h *ConsoleHost) PrintValue(s string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			h.partial.WriteString(s)
			return
		}
		h.partial.WriteString(s[:i])
		h.Console.WriteLineString(h.partial.String())
		h.partial.Reset()
		s = s[i+1:]
	}
}

func (h *ConsoleHost) flush() {
	if h.partial.Len() > 0 {
		h.Console.WriteLineString(h.partial.String())
		h.partial.Reset()
	}
}

func (h *ConsoleHost) Alert(lines, buttons []string, reply func(int)) {
	h.mu.Lock()
	h.flush()
	for _, l := range lines {
		h.Console.WriteLineString("! " + l)
	}
	if len(buttons) > 0 {
		h.Console.WriteLineString("[" + strings.Join(buttons, "] [") + "]")
	}
	h.mu.Unlock()
	reply(h.DefaultButton)
}

func (h *ConsoleHost) Error(err error) {
	h.mu.Lock()
	h.flush()
	h.Console.WriteLineString(fmt.Sprintf("error: %v", err))
	h.mu.Unlock()
}

func (h *ConsoleHost) Finished(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.flush()
	if err != nil {
		h.Console.WriteLineString("---Error occurred:---")
		h.Console.WriteLineString(err.Error())
		return
	}
	h.Console.WriteLineString("---Completed---")
}
