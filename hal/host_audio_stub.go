//go:build !cgo

package hal

// Without the Ebiten backend the host falls back to simulated output.
func newHostAudio(sampleRate uint32) Audio {
	return simulatedAudio{out: newSimulatedAudioOut(sampleRate)}
}
