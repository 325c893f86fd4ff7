package kernel

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"testing"
	"time"
)

const testTimeout = time.Second

func TestMailboxTryTakeFirstEmpty(t *testing.T) {
	mb := NewMailbox[int]()

	_, ok := mb.TryTakeFirst()
	if ok {
		t.Fatalf("TryTakeFirst() ok = true, want false")
	}
	if !mb.IsEmpty() {
		t.Fatalf("IsEmpty() = false, want true")
	}
}

func TestMailboxFIFO(t *testing.T) {
	mb := NewMailbox[int]()
	for i := 0; i < 100; i++ {
		mb.Append(i)
	}
	for i := 0; i < 100; i++ {
		if got := mb.TakeFirst(); got != i {
			t.Fatalf("TakeFirst() = %d, want %d", got, i)
		}
	}
	if !mb.IsEmpty() {
		t.Fatalf("IsEmpty() = false after draining")
	}
}

func TestMailboxConcurrentProducers(t *testing.T) {
	oldProcs := runtime.GOMAXPROCS(1)
	defer runtime.GOMAXPROCS(oldProcs)

	const (
		producers = 4
		perProd   = 10_000
		total     = producers * perProd
	)

	mb := NewMailbox[int]()

	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(producers)
	for producerID := 0; producerID < producers; producerID++ {
		go func(producerID int) {
			defer wg.Done()
			<-start
			for i := 0; i < perProd; i++ {
				mb.Append(producerID*perProd + i)
			}
		}(producerID)
	}
	close(start)

	seen := make([]bool, total)
	last := make([]int, producers)
	for i := range last {
		last[i] = -1
	}
	for i := 0; i < total; i++ {
		id := mb.TakeFirst()
		if id < 0 || id >= total {
			t.Fatalf("TakeFirst() id = %d, want [0,%d)", id, total)
		}
		if seen[id] {
			t.Fatalf("TakeFirst() duplicate id %d", id)
		}
		seen[id] = true

		// Items from one producer keep their relative order.
		p, n := id/perProd, id%perProd
		if n <= last[p] {
			t.Fatalf("producer %d: got %d after %d", p, n, last[p])
		}
		last[p] = n
	}

	wg.Wait()
	if _, ok := mb.TryTakeFirst(); ok {
		t.Fatalf("TryTakeFirst() ok = true after draining all items")
	}
}

func TestMailboxTakeFirstBlocksUntilAppend(t *testing.T) {
	mb := NewMailbox[string]()
	got := make(chan string, 1)
	go func() { got <- mb.TakeFirst() }()

	select {
	case v := <-got:
		t.Fatalf("TakeFirst() returned %q before Append", v)
	case <-time.After(20 * time.Millisecond):
	}

	mb.Append("x")
	select {
	case v := <-got:
		if v != "x" {
			t.Fatalf("TakeFirst() = %q, want %q", v, "x")
		}
	case <-time.After(testTimeout):
		t.Fatalf("TakeFirst() still blocked after Append")
	}
}

func TestMailboxFirstMatchingKeepsOrder(t *testing.T) {
	mb := NewMailbox[int]()
	for _, v := range []int{1, 3, 4, 5, 6} {
		mb.Append(v)
	}

	even := func(v int) bool { return v%2 == 0 }
	v, ok := mb.FirstMatching(even)
	if !ok || v != 4 {
		t.Fatalf("FirstMatching() = %d, %v; want 4, true", v, ok)
	}
	if _, ok := mb.FirstMatching(func(v int) bool { return v > 100 }); ok {
		t.Fatalf("FirstMatching() ok = true for no match")
	}

	want := []int{1, 3, 5, 6}
	if n := mb.Len(); n != len(want) {
		t.Fatalf("Len() = %d, want %d", n, len(want))
	}
	for _, w := range want {
		if got := mb.TakeFirst(); got != w {
			t.Fatalf("TakeFirst() = %d, want %d", got, w)
		}
	}
}

func TestMailboxTakeFirstContext(t *testing.T) {
	mb := NewMailbox[int]()
	ctx, cancel := context.WithCancel(context.Background())

	errc := make(chan error, 1)
	go func() {
		_, err := mb.TakeFirstContext(ctx)
		errc <- err
	}()
	cancel()

	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("TakeFirstContext() err = %v, want context.Canceled", err)
		}
	case <-time.After(testTimeout):
		t.Fatalf("TakeFirstContext() did not return after cancel")
	}

	// An abandoned wait must not consume anything.
	mb.Append(7)
	if v, ok := mb.TryTakeFirst(); !ok || v != 7 {
		t.Fatalf("TryTakeFirst() = %d, %v; want 7, true", v, ok)
	}
}

func TestMailboxTakeFirstMatchingContext(t *testing.T) {
	mb := NewMailbox[int]()
	mb.Append(1)

	got := make(chan int, 1)
	go func() {
		v, err := mb.TakeFirstMatchingContext(context.Background(), func(v int) bool { return v >= 10 })
		if err != nil {
			t.Errorf("TakeFirstMatchingContext() err = %v", err)
		}
		got <- v
	}()

	mb.Append(2)
	mb.Append(10)
	select {
	case v := <-got:
		if v != 10 {
			t.Fatalf("TakeFirstMatchingContext() = %d, want 10", v)
		}
	case <-time.After(testTimeout):
		t.Fatalf("TakeFirstMatchingContext() still blocked")
	}
	if a, b := mb.TakeFirst(), mb.TakeFirst(); a != 1 || b != 2 {
		t.Fatalf("remaining = %d, %d; want 1, 2", a, b)
	}
}
