package hal

import "oplhost/kernel"

// MainQueue carries closures from any goroutine to the UI goroutine, which
// runs them between frames.
type MainQueue struct {
	mb *kernel.Mailbox[func()]
}

// NewMainQueue returns an empty queue.
func NewMainQueue() *MainQueue {
	return &MainQueue{mb: kernel.NewMailbox[func()]()}
}

// Post queues fn. It never blocks.
func (q *MainQueue) Post(fn func()) {
	if fn == nil {
		return
	}
	q.mb.Append(fn)
}

// Drain runs every queued closure in order and returns how many ran.
// Closures posted while draining run in the same call.
func (q *MainQueue) Drain() int {
	n := 0
	for {
		fn, ok := q.mb.TryTakeFirst()
		if !ok {
			return n
		}
		fn()
		n++
	}
}

// Len returns the number of queued closures.
func (q *MainQueue) Len() int { return q.mb.Len() }
