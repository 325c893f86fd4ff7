package kernel

import (
	"context"
	"sync"
)

// Mailbox is an unbounded FIFO shared by any number of producer and consumer
// goroutines.
//
// Blocking takes park the caller on a condition variable. Every Append wakes
// all parked callers; each item is handed to exactly one of them.
type Mailbox[T any] struct {
	mu    *sync.Mutex
	cond  *sync.Cond
	items []T
}

// NewMailbox returns an empty mailbox.
func NewMailbox[T any]() *Mailbox[T] {
	return newMailbox[T](new(sync.Mutex))
}

// newMailbox builds a mailbox guarded by an existing mutex, so the owner can
// update its own state and the queue under a single lock.
func newMailbox[T any](mu *sync.Mutex) *Mailbox[T] {
	return &Mailbox[T]{mu: mu, cond: sync.NewCond(mu)}
}

// Append adds item to the tail.
func (mb *Mailbox[T]) Append(item T) {
	mb.mu.Lock()
	mb.appendLocked(item)
	mb.mu.Unlock()
}

func (mb *Mailbox[T]) appendLocked(item T) {
	mb.items = append(mb.items, item)
	mb.cond.Broadcast()
}

// TakeFirst removes and returns the head, blocking while the mailbox is empty.
func (mb *Mailbox[T]) TakeFirst() T {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	for len(mb.items) == 0 {
		mb.cond.Wait()
	}
	return mb.removeLocked(0)
}

// TakeFirstContext is TakeFirst with an abandonable wait. It returns ctx.Err()
// once ctx is done, leaving queued items in place.
func (mb *Mailbox[T]) TakeFirstContext(ctx context.Context) (T, error) {
	return mb.take(ctx, nil)
}

// TakeFirstMatchingContext blocks until an item satisfying pred is queued and
// removes it. Items that do not match keep their order.
func (mb *Mailbox[T]) TakeFirstMatchingContext(ctx context.Context, pred func(T) bool) (T, error) {
	return mb.take(ctx, pred)
}

func (mb *Mailbox[T]) take(ctx context.Context, pred func(T) bool) (T, error) {
	stop := context.AfterFunc(ctx, func() {
		mb.mu.Lock()
		mb.cond.Broadcast()
		mb.mu.Unlock()
	})
	defer stop()

	mb.mu.Lock()
	defer mb.mu.Unlock()
	for {
		if err := ctx.Err(); err != nil {
			var zero T
			return zero, err
		}
		if i := mb.indexLocked(pred); i >= 0 {
			return mb.removeLocked(i), nil
		}
		mb.cond.Wait()
	}
}

// TryTakeFirst removes and returns the head without blocking.
func (mb *Mailbox[T]) TryTakeFirst() (T, bool) {
	return mb.FirstMatching(nil)
}

// FirstMatching removes and returns the first item satisfying pred, scanning
// the whole queue. A nil pred matches the head. It never blocks.
func (mb *Mailbox[T]) FirstMatching(pred func(T) bool) (T, bool) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	return mb.firstMatchingLocked(pred)
}

func (mb *Mailbox[T]) firstMatchingLocked(pred func(T) bool) (T, bool) {
	i := mb.indexLocked(pred)
	if i < 0 {
		var zero T
		return zero, false
	}
	return mb.removeLocked(i), true
}

// IsEmpty reports whether the mailbox was empty at the time of the call.
// The answer may be stale by the time it is used.
func (mb *Mailbox[T]) IsEmpty() bool {
	return mb.Len() == 0
}

// Len returns the number of queued items.
func (mb *Mailbox[T]) Len() int {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	return len(mb.items)
}

func (mb *Mailbox[T]) indexLocked(pred func(T) bool) int {
	if pred == nil {
		if len(mb.items) == 0 {
			return -1
		}
		return 0
	}
	for i, item := range mb.items {
		if pred(item) {
			return i
		}
	}
	return -1
}

func (mb *Mailbox[T]) removeLocked(i int) T {
	item := mb.items[i]
	copy(mb.items[i:], mb.items[i+1:])
	var zero T
	mb.items[len(mb.items)-1] = zero
	mb.items = mb.items[:len(mb.items)-1]
	return item
}
