package hal

import "sync"

// sampleRing is a bounded FIFO of samples between a writer that blocks when
// full and a reader that blocks when empty.
type sampleRing struct {
	mu   sync.Mutex
	cond *sync.Cond

	buf []int16
	r   int
	w   int
	n   int

	closed bool
}

func newSampleRing(size int) *sampleRing {
	rb := &sampleRing{buf: make([]int16, size)}
	rb.cond = sync.NewCond(&rb.mu)
	return rb
}

// reset empties the ring and reopens it.
func (rb *sampleRing) reset() {
	rb.mu.Lock()
	rb.r, rb.w, rb.n = 0, 0, 0
	rb.closed = false
	rb.cond.Broadcast()
	rb.mu.Unlock()
}

// close drops queued samples and releases blocked callers.
func (rb *sampleRing) close() {
	rb.mu.Lock()
	rb.closed = true
	rb.r, rb.w, rb.n = 0, 0, 0
	rb.cond.Broadcast()
	rb.mu.Unlock()
}

func (rb *sampleRing) write(s int16) {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	for !rb.closed && rb.n == len(rb.buf) {
		rb.cond.Wait()
	}
	if rb.closed {
		return
	}
	rb.buf[rb.w] = s
	rb.w = (rb.w + 1) % len(rb.buf)
	rb.n++
	rb.cond.Broadcast()
}

// read fills dst with up to len(dst) samples. With wait set it blocks until
// at least one sample is queued. ok is false once the ring is closed.
func (rb *sampleRing) read(dst []int16, wait bool) (n int, ok bool) {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	for wait && !rb.closed && rb.n == 0 {
		rb.cond.Wait()
	}
	if rb.closed {
		return 0, false
	}
	for n < len(dst) && rb.n > 0 {
		dst[n] = rb.buf[rb.r]
		rb.r = (rb.r + 1) % len(rb.buf)
		rb.n--
		n++
	}
	if n > 0 {
		rb.cond.Broadcast()
	}
	return n, true
}

func (rb *sampleRing) pending() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.n
}

// ringSize picks a buffer of roughly 100ms.
func ringSize(sampleRate uint32) int {
	ring := int(sampleRate / 10)
	if ring < 2048 {
		ring = 2048
	}
	if ring > 16384 {
		ring = 16384
	}
	return ring
}
