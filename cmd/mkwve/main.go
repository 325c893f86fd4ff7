// Command mkwve converts between PCM16 mono WAV files and A-law WVE sound
// files as played by PlaySound.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"oplhost/sound"
)

func main() {
	var (
		inPath   = flag.String("in", "", "Input file (.wav for encode, .wve for decode).")
		outPath  = flag.String("out", "", "Output file (.wve for encode, .wav for decode).")
		mode     = flag.String("mode", "encode", "encode|decode.")
		repeats  = flag.Uint("repeats", 1, "Number of times the sound plays (encode mode only).")
		silence  = flag.Uint("silence", 0, "Trailing silence in 1/32 s units (encode mode only).")
		rawInput = flag.Bool("raw", false, "Decode headerless A-law data (decode mode only).")
	)
	flag.Parse()

	if *inPath == "" || *outPath == "" {
		fatalf("usage: mkwve -mode encode -in in.wav -out out.wve [-repeats 1] [-silence 0]\n       mkwve -mode decode -in in.wve -out out.wav [-raw]")
	}

	switch strings.ToLower(*mode) {
	case "encode":
		h := sound.Header{Version: sound.WVEVersion, Repeats: uint16(*repeats), TrailingSilence: uint16(*silence)}
		if err := encodeWAVToWVE(*inPath, *outPath, h); err != nil {
			fatalf("encode: %v", err)
		}
	case "decode":
		if err := decodeWVEToWAV(*inPath, *outPath, *rawInput); err != nil {
			fatalf("decode: %v", err)
		}
	default:
		fatalf("unknown mode: %s", *mode)
	}
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}

func encodeWAVToWVE(inPath, outPath string, h sound.Header) error {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return err
	}
	pcm, rate, err := decodeWAV(data)
	if err != nil {
		return err
	}
	if len(pcm) == 0 {
		return fmt.Errorf("wav: empty data")
	}
	pcm = sound.Resample(pcm, rate, sound.SampleRate)
	alaw := sound.EncodeALawSamples(pcm)
	h.Samples = uint32(len(alaw))

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()
	bw := bufio.NewWriterSize(out, 64*1024)
	if err := sound.WriteWVE(bw, h, alaw); err != nil {
		return err
	}
	return bw.Flush()
}

func decodeWVEToWAV(inPath, outPath string, raw bool) error {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return err
	}
	if !raw && !sound.HasHeader(data) {
		return sound.ErrNoHeader
	}
	pcm, err := sound.Decode(data)
	if err != nil {
		return err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()
	bw := bufio.NewWriterSize(out, 64*1024)
	if err := writeWAV(bw, pcm, sound.SampleRate); err != nil {
		return err
	}
	return bw.Flush()
}
