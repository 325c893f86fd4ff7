package sound

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// HeaderSize is the size of a WVE file header.
const HeaderSize = 32

// WVEVersion is the format word written after the magic.
const WVEVersion = 0x0f00

var wveMagic = []byte("ALawSoundFile**\x00")

// MaxDecodedSamples bounds what Decode will expand: ten minutes at
// SampleRate.
const MaxDecodedSamples = 10 * 60 * SampleRate

var (
	ErrNoHeader    = errors.New("sound: no WVE header")
	ErrShortHeader = errors.New("sound: WVE header too short")
	ErrTooLong     = errors.New("sound: decoded sound too long")
)

// Header is the fixed 32-byte WVE header. Sample data follows it as 8 kHz
// mono A-law bytes.
type Header struct {
	Version uint16
	Samples uint32
	// TrailingSilence is measured in 1/32 s units.
	TrailingSilence uint16
	Repeats         uint16
}

// HasHeader reports whether data starts with the WVE magic.
func HasHeader(data []byte) bool {
	return bytes.HasPrefix(data, wveMagic)
}

// ParseHeader reads a header from the start of data.
func ParseHeader(data []byte) (Header, error) {
	if !HasHeader(data) {
		return Header{}, ErrNoHeader
	}
	if len(data) < HeaderSize {
		return Header{}, ErrShortHeader
	}
	return Header{
		Version:         binary.LittleEndian.Uint16(data[16:18]),
		Samples:         binary.LittleEndian.Uint32(data[18:22]),
		TrailingSilence: binary.LittleEndian.Uint16(data[22:24]),
		Repeats:         binary.LittleEndian.Uint16(data[24:26]),
	}, nil
}

// Split separates an optional WVE header from the A-law payload. Data
// without the magic is returned unchanged as raw A-law.
func Split(data []byte) (Header, []byte, error) {
	if !HasHeader(data) {
		return Header{Samples: uint32(len(data))}, data, nil
	}
	h, err := ParseHeader(data)
	if err != nil {
		return Header{}, nil, err
	}
	payload := data[HeaderSize:]
	if n := int(h.Samples); n > 0 && n < len(payload) {
		payload = payload[:n]
	}
	return h, payload, nil
}

// Decode turns guest sound data into linear PCM at SampleRate, applying the
// header's repeat count and trailing silence. Results longer than
// MaxDecodedSamples fail with ErrTooLong; PlayData streams instead.
func Decode(data []byte) ([]int16, error) {
	h, payload, err := Split(data)
	if err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return nil, nil
	}

	repeats := max(int(h.Repeats), 1)
	silence := int(h.TrailingSilence) * SampleRate / 32
	if total := int64(len(payload))*int64(repeats) + int64(silence); total > MaxDecodedSamples {
		return nil, fmt.Errorf("%w: %d samples", ErrTooLong, total)
	}
	one := DecodeALawSamples(payload)

	out := make([]int16, 0, len(one)*repeats+silence)
	for i := 0; i < repeats; i++ {
		out = append(out, one...)
	}
	return append(out, make([]int16, silence)...), nil
}

// WriteWVE writes a header followed by the A-law payload.
func WriteWVE(w io.Writer, h Header, alaw []byte) error {
	var hdr [HeaderSize]byte
	copy(hdr[:], wveMagic)
	if h.Version == 0 {
		h.Version = WVEVersion
	}
	binary.LittleEndian.PutUint16(hdr[16:18], h.Version)
	binary.LittleEndian.PutUint32(hdr[18:22], uint32(len(alaw)))
	binary.LittleEndian.PutUint16(hdr[22:24], h.TrailingSilence)
	binary.LittleEndian.PutUint16(hdr[24:26], h.Repeats)

	if _, err := w.Write(hdr[:]); err != nil {
		return fmt.Errorf("sound: write header: %w", err)
	}
	if _, err := w.Write(alaw); err != nil {
		return fmt.Errorf("sound: write samples: %w", err)
	}
	return nil
}
