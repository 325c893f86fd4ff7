package kernel

import (
	"context"
	"sync"
)

// Call performs a one-shot blocking round trip: post hands reply to code
// running elsewhere (typically the UI goroutine) and Call suspends until
// reply is invoked. Only the first reply counts.
func Call[T any](post func(reply func(T))) T {
	v, _ := CallContext(context.Background(), post)
	return v
}

// CallContext is Call with an abandonable wait.
func CallContext[T any](ctx context.Context, post func(reply func(T))) (T, error) {
	ch := make(chan T, 1)
	var once sync.Once
	post(func(v T) {
		once.Do(func() { ch <- v })
	})
	select {
	case v := <-ch:
		return v, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
