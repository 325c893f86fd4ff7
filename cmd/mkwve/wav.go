package main

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var errNotWAV = errors.New("wav: not a RIFF/WAVE file")

// wavFormat is the 16-byte PCM "fmt " chunk body.
type wavFormat struct {
	AudioFormat   uint16
	Channels      uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
}

// wavHeader is the canonical 44-byte header written by writeWAV.
type wavHeader struct {
	RIFF     [4]byte
	RIFFSize uint32
	WAVE     [4]byte
	FmtID    [4]byte
	FmtSize  uint32
	Format   wavFormat
	DataID   [4]byte
	DataSize uint32
}

// decodeWAV returns the samples and rate of an in-memory PCM16 mono WAV
// file. Unknown chunks are skipped.
func decodeWAV(data []byte) ([]int16, int, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, 0, errNotWAV
	}

	var (
		format  *wavFormat
		samples []byte
	)
	for rest := data[12:]; len(rest) >= 8; {
		id := string(rest[0:4])
		size := int(binary.LittleEndian.Uint32(rest[4:8]))
		rest = rest[8:]
		if size > len(rest) {
			return nil, 0, fmt.Errorf("wav: chunk %q overruns file", id)
		}
		body := rest[:size]

		switch id {
		case "fmt ":
			var f wavFormat
			if err := binary.Read(bytes.NewReader(body), binary.LittleEndian, &f); err != nil {
				return nil, 0, fmt.Errorf("wav: short fmt chunk: %w", err)
			}
			format = &f
		case "data":
			samples = body
		}
		// Chunks are padded to an even length.
		rest = rest[min(size+size%2, len(rest)):]
	}

	switch {
	case format == nil || samples == nil:
		return nil, 0, fmt.Errorf("wav: missing fmt or data chunk")
	case format.AudioFormat != 1:
		return nil, 0, fmt.Errorf("wav: only PCM is supported (format=%d)", format.AudioFormat)
	case format.Channels != 1 || format.BitsPerSample != 16:
		return nil, 0, fmt.Errorf("wav: only PCM16 mono is supported (got channels=%d bits=%d)", format.Channels, format.BitsPerSample)
	case format.SampleRate == 0:
		return nil, 0, fmt.Errorf("wav: zero sample rate")
	}

	pcm := make([]int16, len(samples)/2)
	if err := binary.Read(bytes.NewReader(samples[:2*len(pcm)]), binary.LittleEndian, pcm); err != nil {
		return nil, 0, err
	}
	return pcm, int(format.SampleRate), nil
}

// writeWAV writes pcm as a PCM16 mono WAV file.
func writeWAV(w io.Writer, pcm []int16, sampleRate uint32) error {
	dataSize := uint32(2 * len(pcm))
	h := wavHeader{
		RIFF:     [4]byte{'R', 'I', 'F', 'F'},
		RIFFSize: 36 + dataSize,
		WAVE:     [4]byte{'W', 'A', 'V', 'E'},
		FmtID:    [4]byte{'f', 'm', 't', ' '},
		FmtSize:  16,
		Format: wavFormat{
			AudioFormat:   1,
			Channels:      1,
			SampleRate:    sampleRate,
			ByteRate:      2 * sampleRate,
			BlockAlign:    2,
			BitsPerSample: 16,
		},
		DataID:   [4]byte{'d', 'a', 't', 'a'},
		DataSize: dataSize,
	}
	if err := binary.Write(w, binary.LittleEndian, &h); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, pcm)
}
