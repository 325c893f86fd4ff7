package sound

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"oplhost/hal"
)

func TestALawRoundTripAllCodes(t *testing.T) {
	for i := 0; i < 256; i++ {
		b := byte(i)
		if got := EncodeALaw(DecodeALaw(b)); got != b {
			t.Fatalf("EncodeALaw(DecodeALaw(%#02x)) = %#02x", b, got)
		}
	}
}

func TestALawKnownValues(t *testing.T) {
	require.Equal(t, int16(8), DecodeALaw(0xd5))
	require.Equal(t, int16(-8), DecodeALaw(0x55))
	require.Equal(t, int16(32256), DecodeALaw(0xaa))
	require.Equal(t, byte(0xaa), EncodeALaw(32767))
	require.Equal(t, byte(0x2a), EncodeALaw(-32768))
}

func TestALawQuantisationError(t *testing.T) {
	for _, v := range []int16{0, 100, -100, 1000, -1000, 12345, -12345} {
		got := DecodeALaw(EncodeALaw(v))
		diff := int(got) - int(v)
		if diff < 0 {
			diff = -diff
		}
		limit := int(v)
		if limit < 0 {
			limit = -limit
		}
		require.LessOrEqual(t, diff, limit/16+16, "value %d decoded as %d", v, got)
	}
}

func TestWVEWriteParse(t *testing.T) {
	payload := []byte{0xd5, 0x55, 0xaa}
	var buf bytes.Buffer
	require.NoError(t, WriteWVE(&buf, Header{Repeats: 2, TrailingSilence: 1}, payload))
	require.Equal(t, HeaderSize+len(payload), buf.Len())

	data := buf.Bytes()
	require.True(t, HasHeader(data))
	h, err := ParseHeader(data)
	require.NoError(t, err)
	require.Equal(t, Header{Version: WVEVersion, Samples: 3, TrailingSilence: 1, Repeats: 2}, h)

	pcm, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, pcm, 3*2+SampleRate/32)
	require.Equal(t, []int16{8, -8, 32256, 8, -8, 32256}, pcm[:6])
}

func TestDecodeRawALaw(t *testing.T) {
	pcm, err := Decode([]byte{0xd5, 0x55})
	require.NoError(t, err)
	require.Equal(t, []int16{8, -8}, pcm)

	_, err = Decode(wveMagic)
	require.True(t, errors.Is(err, ErrShortHeader))
}

func TestToneAndResample(t *testing.T) {
	tone := Tone(8000, 1000, 100*time.Millisecond)
	require.Len(t, tone, 800)
	require.Zero(t, tone[0])
	require.Nil(t, Tone(8000, 0, time.Second))

	up := Resample(tone, 8000, 44100)
	require.Len(t, up, 4410)
	require.Equal(t, tone[0], up[0])
	require.Equal(t, 100*time.Millisecond, Duration(len(up), 44100))
}

type testAudio struct {
	out  hal.AudioOut
	rate uint32
}

func (a testAudio) Out() hal.AudioOut   { return a.out }
func (a testAudio) SampleRate() uint32 { return a.rate }

func TestPlayWaitsForDrain(t *testing.T) {
	a := testAudio{out: hal.NewSimulatedAudioOut(8000), rate: 8000}
	start := time.Now()
	require.NoError(t, PlayData(context.Background(), a, make([]byte, 800)))
	require.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	require.Zero(t, a.out.PendingSamples())
}

func TestPlayHonoursContext(t *testing.T) {
	a := testAudio{out: hal.NewSimulatedAudioOut(8000), rate: 8000}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := PlayData(ctx, a, make([]byte, 8000))
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPlayWithoutDevice(t *testing.T) {
	require.ErrorIs(t, PlayData(context.Background(), testAudio{}, []byte{1}), ErrNoDevice)
	require.ErrorIs(t, Beep(context.Background(), nil, 440, time.Millisecond), ErrNoDevice)
}

func TestOverlappingPlaysShareDeviceInTurn(t *testing.T) {
	a := testAudio{out: hal.NewSimulatedAudioOut(8000), rate: 8000}
	start := time.Now()

	done := make(chan time.Duration, 2)
	for i := 0; i < 2; i++ {
		go func() {
			if err := PlayData(context.Background(), a, make([]byte, 1600)); err != nil {
				t.Errorf("PlayData: %v", err)
			}
			done <- time.Since(start)
		}()
	}

	first, second := <-done, <-done
	// 200 ms each; played in turn they need about 400 ms in total.
	require.GreaterOrEqual(t, first, 150*time.Millisecond)
	require.GreaterOrEqual(t, second, 350*time.Millisecond)
	require.GreaterOrEqual(t, second-first, 150*time.Millisecond)
}

func hugeRepeatWVE(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, WriteWVE(&buf, Header{Repeats: 0xffff, TrailingSilence: 0xffff}, make([]byte, 4096)))
	return buf.Bytes()
}

func TestDecodeRejectsHugeRepeatCount(t *testing.T) {
	_, err := Decode(hugeRepeatWVE(t))
	require.ErrorIs(t, err, ErrTooLong)
}

func TestPlayStreamsHugeRepeatCount(t *testing.T) {
	a := testAudio{out: hal.NewSimulatedAudioOut(8000), rate: 8000}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := PlayData(ctx, a, hugeRepeatWVE(t))
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), time.Second)
}
