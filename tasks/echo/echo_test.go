package echo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"oplhost/proto"
	"oplhost/sound"
)

type fakeIO struct {
	t         *testing.T
	script    []proto.Response
	requests  []proto.Kind
	cancelled []proto.Handle
	out       strings.Builder
	alerts    int
	choice    int
}

func (f *fakeIO) AsyncRequest(h proto.Handle, req proto.RequestType) {
	f.requests = append(f.requests, req.Kind())
}

func (f *fakeIO) CancelRequest(h proto.Handle) { f.cancelled = append(f.cancelled, h) }

func (f *fakeIO) WaitForAnyRequest() proto.Response {
	require.NotEmpty(f.t, f.script, "program waited with no scripted completion left")
	r := f.script[0]
	f.script = f.script[1:]
	return r
}

func (f *fakeIO) TestEvent() bool { return false }

func (f *fakeIO) PrintValue(s string) { f.out.WriteString(s) }

func (f *fakeIO) Alert(lines, buttons []string) int {
	f.alerts++
	return f.choice
}

func TestRunEchoesAndQuits(t *testing.T) {
	io := &fakeIO{t: t, script: []proto.Response{
		{Handle: hEvent, Value: proto.KeyPress{Keycode: 'a'}},
		{Handle: hTick, Value: proto.Completed{}},
		{Handle: hEvent, Value: proto.KeyPress{Keycode: proto.KeyEnter}},
		{Handle: hEvent, Value: proto.PenEvent{Phase: proto.PenPhaseDown, X: 3, Y: 4}},
		{Handle: hSound, Value: proto.Completed{}},
		{Handle: hEvent, Value: proto.KeyPress{Keycode: proto.KeyEscape}},
		{Handle: hTick, Value: proto.Cancelled{}},
	}}

	require.NoError(t, New(Config{TickMillis: 10}).Run(io))
	require.Empty(t, io.script)
	require.Equal(t, []proto.Handle{hTick}, io.cancelled)
	require.Equal(t, []proto.Kind{
		proto.KindGetEvent, proto.KindSleep,
		proto.KindGetEvent,
		proto.KindSleep,
		proto.KindPlaySound, proto.KindGetEvent,
		proto.KindGetEvent,
	}, io.requests)

	out := io.out.String()
	require.Contains(t, out, "key 97\n")
	require.Contains(t, out, "pen down 3,4\n")
	require.Contains(t, out, "sound done\n")
	require.True(t, strings.HasSuffix(out, "echo: bye\n"))
}

func TestRunMenuAlertQuit(t *testing.T) {
	io := &fakeIO{t: t, choice: 2, script: []proto.Response{
		{Handle: hEvent, Value: proto.KeyPress{Keycode: proto.KeyMenu}},
		{Handle: hTick, Value: proto.Cancelled{}},
	}}
	require.NoError(t, New(Config{}).Run(io))
	require.Equal(t, 1, io.alerts)
}

func TestRunMaxTicks(t *testing.T) {
	io := &fakeIO{t: t, script: []proto.Response{
		{Handle: hTick, Value: proto.Completed{}},
		{Handle: hTick, Value: proto.Completed{}},
		{Handle: hEvent, Value: proto.Cancelled{}},
	}}
	require.NoError(t, New(Config{MaxTicks: 2}).Run(io))
	require.Equal(t, []proto.Handle{hEvent}, io.cancelled)
	require.Contains(t, io.out.String(), "echo: 2 ticks\n")
}

func TestChimeIsWVE(t *testing.T) {
	c := Chime()
	require.True(t, sound.HasHeader(c))
	pcm, err := sound.Decode(c)
	require.NoError(t, err)
	require.Len(t, pcm, sound.SampleRate*150/1000)
}
