package app

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/joeycumines/logiface"

	"oplhost/hal"
	"oplhost/kernel"
	"oplhost/proto"
)

var (
	// ErrStopped unwinds the guest goroutine when the session is stopped
	// while the guest is blocked in a session call.
	ErrStopped = errors.New("app: session stopped")

	ErrAlreadyStarted = errors.New("app: session already started")
	ErrNotStarted     = errors.New("app: session not started")
)

// State is the lifecycle state of a Session.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Guest is a program run by a Session. Run is called once on a dedicated
// goroutine locked to its OS thread and returns when the program ends.
type Guest interface {
	Run(io IoHandler) error
}

// GuestFunc adapts a function to Guest.
type GuestFunc func(io IoHandler) error

func (f GuestFunc) Run(io IoHandler) error { return f(io) }

// Session runs one guest program. It owns the program's scheduler and its
// input event queue.
type Session struct {
	id       uuid.UUID
	name     string
	windowID int
	guest    Guest
	host     HostCallbacks
	audio    hal.Audio
	clock    hal.Clock
	main     *hal.MainQueue
	log      *logiface.Logger[logiface.Event]
	journal  *journalRecorder

	ctx    context.Context
	cancel context.CancelFunc

	sched  *kernel.Scheduler
	events *kernel.Mailbox[proto.ResponseValue]

	started time.Time
	state   atomic.Int32
	done    chan struct{}

	mu  sync.Mutex
	err error
}

// Option configures a Session.
type Option func(*Session)

// WithName sets the program name used in logs.
func WithName(name string) Option {
	return func(s *Session) { s.name = name }
}

// WithLogger sets the session logger.
func WithLogger(l *logiface.Logger[logiface.Event]) Option {
	return func(s *Session) { s.log = l }
}

// WithAudio sets the device used by PlaySound and Beep. Without it both
// complete immediately and log the missing device.
func WithAudio(a hal.Audio) Option {
	return func(s *Session) { s.audio = a }
}

// WithClock overrides the time source used for timers and timestamps.
func WithClock(c hal.Clock) Option {
	return func(s *Session) { s.clock = c }
}

// WithMainQueue routes host callbacks that need the UI goroutine through q.
func WithMainQueue(q *hal.MainQueue) Option {
	return func(s *Session) { s.main = q }
}

// WithWindowID sets the window id stamped on pointer events.
func WithWindowID(id int) Option {
	return func(s *Session) { s.windowID = id }
}

// NewSession builds a session for guest. host receives console output,
// alerts and the final result.
func NewSession(guest Guest, host HostCallbacks, opts ...Option) (*Session, error) {
	if guest == nil {
		return nil, errors.New("app: nil guest")
	}
	if host == nil {
		return nil, errors.New("app: nil host callbacks")
	}

	s := &Session{
		id:       uuid.New(),
		name:     "program",
		windowID: 1,
		guest:    guest,
		host:     host,
		events:   kernel.NewMailbox[proto.ResponseValue](),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = hal.NewClock()
	}
	if s.journal != nil {
		s.journal.now = s.clock.Now
	}
	if s.log != nil {
		s.log = s.log.Clone().
			Str("session", s.id.String()).
			Str("program", s.name).
			Logger()
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.started = s.clock.Now()

	reg := kernel.NewRegistry()
	if err := s.registerHandlers(reg); err != nil {
		s.cancel()
		return nil, fmt.Errorf("app: register handlers: %w", err)
	}
	s.sched = kernel.NewScheduler(reg, kernel.WithLogger(s.log), kernel.WithContext(s.ctx))
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// Name returns the program name.
func (s *Session) Name() string { return s.name }

// State returns the lifecycle state.
func (s *Session) State() State { return State(s.state.Load()) }

// Done is closed when the guest has finished.
func (s *Session) Done() <-chan struct{} { return s.done }

// Start runs the guest on its own goroutine. A session can be started once.
func (s *Session) Start() error {
	if !s.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return ErrAlreadyStarted
	}
	s.log.Info().Log("program started")

	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		err := kernel.Guard(func() error { return s.guest.Run(s) })
		s.finish(err)
	}()
	return nil
}

func (s *Session) finish(err error) {
	if errors.Is(err, ErrStopped) {
		err = nil
	}
	var pi *kernel.PanicInfo
	if errors.As(err, &pi) {
		reportPanic(s.log, s.host, pi)
	}

	s.mu.Lock()
	s.err = err
	s.mu.Unlock()

	s.state.Store(int32(StateFinished))
	s.cancel()
	if err != nil {
		s.log.Err().Err(err).Log("program failed")
	} else {
		s.log.Info().Log("program completed")
	}
	s.host.Finished(err)
	close(s.done)
}

// Wait blocks until the guest finishes and returns its error.
func (s *Session) Wait() error {
	if s.State() == StateIdle {
		return ErrNotStarted
	}
	<-s.done
	return s.Err()
}

// Err returns the guest error once finished.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Stop asks the guest to quit and waits for it. If the guest has not
// finished when ctx is done, blocked session calls are released and Stop
// waits for the guest to return from them.
func (s *Session) Stop(ctx context.Context) error {
	switch s.State() {
	case StateIdle:
		s.state.Store(int32(StateFinished))
		s.cancel()
		close(s.done)
		return nil
	case StateFinished:
		return s.Err()
	}

	s.SendQuit()
	select {
	case <-s.done:
		return s.Err()
	case <-ctx.Done():
	}
	s.log.Warning().Log("program did not quit, releasing blocked calls")
	s.cancel()
	<-s.done
	return s.Err()
}

// since returns the event timestamp for now.
func (s *Session) since() time.Duration {
	return s.clock.Now().Sub(s.started)
}

// checkStopped unwinds the guest goroutine once the session is stopping.
func (s *Session) checkStopped(err error) {
	if err != nil && s.ctx.Err() != nil {
		panic(ErrStopped)
	}
}
