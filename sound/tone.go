package sound

import (
	"math"
	"time"
)

const toneAmplitude = 0.4 * math.MaxInt16

// Tone renders a sine wave of freq Hz lasting d at sampleRate.
func Tone(sampleRate int, freq float64, d time.Duration) []int16 {
	if sampleRate <= 0 || freq <= 0 || d <= 0 {
		return nil
	}
	n := int(d.Seconds() * float64(sampleRate))
	out := make([]int16, n)
	step := 2 * math.Pi * freq / float64(sampleRate)
	for i := range out {
		out[i] = int16(toneAmplitude * math.Sin(step*float64(i)))
	}
	return out
}

// Resample converts pcm from one rate to another by linear interpolation.
func Resample(pcm []int16, from, to int) []int16 {
	if from == to || from <= 0 || to <= 0 || len(pcm) == 0 {
		return pcm
	}
	n := int(int64(len(pcm)) * int64(to) / int64(from))
	out := make([]int16, n)
	ratio := float64(from) / float64(to)
	last := len(pcm) - 1
	for i := range out {
		pos := float64(i) * ratio
		j := int(pos)
		if j >= last {
			out[i] = pcm[last]
			continue
		}
		frac := pos - float64(j)
		out[i] = int16(float64(pcm[j])*(1-frac) + float64(pcm[j+1])*frac)
	}
	return out
}

// Duration returns how long n samples last at sampleRate.
func Duration(n, sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second / time.Duration(sampleRate)
}
