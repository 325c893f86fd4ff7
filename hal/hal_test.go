package hal

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/joeycumines/logiface"
	"github.com/stretchr/testify/require"
)

func TestMainQueueDrainOrder(t *testing.T) {
	q := NewMainQueue()
	var got []int
	q.Post(func() { got = append(got, 1) })
	q.Post(nil)
	q.Post(func() {
		got = append(got, 2)
		q.Post(func() { got = append(got, 3) })
	})

	require.Equal(t, 3, q.Drain())
	require.Equal(t, []int{1, 2, 3}, got)
	require.Zero(t, q.Len())
}

func TestConsoleKeepsLastLines(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(2, &buf)
	c.WriteLineString("a")
	c.WriteLineString("b")
	c.WriteLineString("c")

	require.Equal(t, []string{"b", "c"}, c.Lines())
	require.Equal(t, "a\nb\nc\n", buf.String())
}

func TestSampleRingWraps(t *testing.T) {
	rb := newSampleRing(4)
	dst := make([]int16, 3)
	for round := 0; round < 3; round++ {
		for i := 0; i < 3; i++ {
			rb.write(int16(round*10 + i))
		}
		n, ok := rb.read(dst, true)
		require.True(t, ok)
		require.Equal(t, 3, n)
		require.Equal(t, []int16{int16(round * 10), int16(round*10 + 1), int16(round*10 + 2)}, dst)
	}
	require.Zero(t, rb.pending())
}

func TestSampleRingCloseReleasesWriter(t *testing.T) {
	rb := newSampleRing(1)
	rb.write(1)

	done := make(chan struct{})
	go func() {
		rb.write(2)
		close(done)
	}()
	rb.close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("write still blocked after close")
	}
	_, ok := rb.read(make([]int16, 1), false)
	require.False(t, ok)
}

func TestSimulatedAudioTakesRealTime(t *testing.T) {
	const rate = 8000
	out := NewSimulatedAudioOut(rate)
	require.NoError(t, out.Start(rate))
	defer out.Stop()

	start := time.Now()
	for i := 0; i < rate/10; i++ {
		out.WriteSample(int16(i))
	}
	for out.PendingSamples() > 0 {
		time.Sleep(time.Millisecond)
	}
	require.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	require.Error(t, out.Start(rate+1))
}

func TestRunHeadlessTicks(t *testing.T) {
	var steps atomic.Int32
	var buf bytes.Buffer
	cfg := Config{ConsoleWriter: &buf}

	err := RunHeadless(context.Background(), cfg, func(h HAL) func() error {
		h.Console().WriteLineString("hello")
		return func() error {
			steps.Add(1)
			return nil
		}
	}, HeadlessConfig{Hz: 1000, Ticks: 5})
	require.NoError(t, err)
	require.EqualValues(t, 5, steps.Load())
	require.Equal(t, "hello\n", buf.String())
}

func TestRunHeadlessRunsCloseHooks(t *testing.T) {
	var order []int
	err := RunHeadless(context.Background(), Config{ConsoleWriter: &bytes.Buffer{}}, func(h HAL) func() error {
		h.OnClose(func() { order = append(order, 1) })
		h.OnClose(func() { order = append(order, 2) })
		h.OnClose(nil)
		return func() error { return nil }
	}, HeadlessConfig{Hz: 1000, Ticks: 3})
	require.NoError(t, err)
	require.Equal(t, []int{2, 1}, order)
}

func TestRunHeadlessStop(t *testing.T) {
	err := RunHeadless(context.Background(), Config{ConsoleWriter: &bytes.Buffer{}}, func(h HAL) func() error {
		ran := false
		h.Main().Post(func() { ran = true })
		return func() error {
			if !ran {
				return errors.New("main queue not drained before step")
			}
			return ErrStop
		}
	}, HeadlessConfig{Hz: 1000})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = RunHeadless(ctx, Config{ConsoleWriter: &bytes.Buffer{}}, func(HAL) func() error { return nil }, HeadlessConfig{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	require.Equal(t, logiface.LevelDebug, lvl)

	lvl, err = ParseLevel("")
	require.NoError(t, err)
	require.Equal(t, logiface.LevelInformational, lvl)

	_, err = ParseLevel("loud")
	require.Error(t, err)
}

func TestNewLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, logiface.LevelInformational)
	l.Info().Str("k", "v").Log("hi")
	l.Debug().Log("hidden")

	require.Contains(t, buf.String(), `"msg":"hi"`)
	require.Contains(t, buf.String(), `"k":"v"`)
	require.NotContains(t, buf.String(), "hidden")
}
