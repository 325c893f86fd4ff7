package hal

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Config describes the host surfaces.
type Config struct {
	// Width and Height are the guest screen size in pixels.
	Width, Height int
	// SampleRate is the fixed audio output rate.
	SampleRate uint32
	// ConsoleLines is how many printed lines the console keeps for display.
	ConsoleLines int
	// ConsoleWriter, when set, also receives every printed line.
	ConsoleWriter io.Writer
}

// DefaultConfig matches a Series 5 screen.
func DefaultConfig() Config {
	return Config{
		Width:        640,
		Height:       240,
		SampleRate:   44100,
		ConsoleLines: 24,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Width <= 0 || c.Height <= 0 {
		c.Width, c.Height = d.Width, d.Height
	}
	if c.SampleRate == 0 {
		c.SampleRate = d.SampleRate
	}
	if c.ConsoleLines <= 0 {
		c.ConsoleLines = d.ConsoleLines
	}
	return c
}

type hostHAL struct {
	cfg     Config
	console *hostConsole
	kbd     *hostKeyboard
	ptr     *hostPointer
	aud     Audio
	clock   *hostClock
	main    *MainQueue

	mu      sync.Mutex
	onClose []func()
	closed  bool
}

// New returns a host HAL implementation.
func New(cfg Config) HAL {
	return newHost(cfg)
}

func newHost(cfg Config) *hostHAL {
	h := newHostWith(cfg)
	h.aud = newHostAudio(h.cfg.SampleRate)
	return h
}

// newHeadlessHost never touches the audio device; sound drains at the real
// rate into nothing.
func newHeadlessHost(cfg Config) *hostHAL {
	h := newHostWith(cfg)
	h.aud = simulatedAudio{out: newSimulatedAudioOut(h.cfg.SampleRate)}
	return h
}

func newHostWith(cfg Config) *hostHAL {
	cfg = cfg.withDefaults()
	return &hostHAL{
		cfg:     cfg,
		console: newHostConsole(cfg.ConsoleLines, cfg.ConsoleWriter),
		kbd:     newHostKeyboard(),
		ptr:     newHostPointer(),
		clock:   newHostClock(),
		main:    NewMainQueue(),
	}
}

func (h *hostHAL) Console() Console { return h.console }
func (h *hostHAL) Input() Input     { return hostInput{kbd: h.kbd, ptr: h.ptr} }
func (h *hostHAL) Audio() Audio     { return h.aud }
func (h *hostHAL) Clock() Clock     { return h.clock }
func (h *hostHAL) Main() *MainQueue { return h.main }

func (h *hostHAL) OnClose(fn func()) {
	if fn == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onClose = append(h.onClose, fn)
}

// close runs the OnClose hooks once, then releases anything a blocked
// guest goroutine may be waiting on.
func (h *hostHAL) close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	hooks := h.onClose
	h.onClose = nil
	h.mu.Unlock()

	for i := len(hooks) - 1; i >= 0; i-- {
		hooks[i]()
	}
	if out := h.aud.Out(); out != nil {
		if err := out.Stop(); err != nil {
			return fmt.Errorf("host: stop audio: %w", err)
		}
	}
	return nil
}

type hostInput struct {
	kbd *hostKeyboard
	ptr *hostPointer
}

func (in hostInput) Keyboard() Keyboard { return in.kbd }
func (in hostInput) Pointer() Pointer   { return in.ptr }

type hostConsole struct {
	mu    sync.Mutex
	w     io.Writer
	max   int
	lines []string
}

func newHostConsole(max int, w io.Writer) *hostConsole {
	return &hostConsole{w: w, max: max}
}

// NewConsole returns a Console that keeps the last max lines and copies
// each line to w when w is non-nil.
func NewConsole(max int, w io.Writer) Console {
	if max <= 0 {
		max = DefaultConfig().ConsoleLines
	}
	return newHostConsole(max, w)
}

func (c *hostConsole) WriteLineString(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, s)
	if over := len(c.lines) - c.max; over > 0 {
		c.lines = append(c.lines[:0], c.lines[over:]...)
	}
	if c.w != nil {
		fmt.Fprintln(c.w, s)
	}
}

func (c *hostConsole) Lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.lines...)
}

// stdoutConsole is used when no writer is configured for headless runs.
func stdoutConsole(cfg Config) Config {
	if cfg.ConsoleWriter == nil {
		cfg.ConsoleWriter = os.Stdout
	}
	return cfg
}
