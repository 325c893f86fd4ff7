package sound

// SampleRate is the rate of guest sound data.
const SampleRate = 8000

var alawSegEnd = [8]int{0x1f, 0x3f, 0x7f, 0xff, 0x1ff, 0x3ff, 0x7ff, 0xfff}

// DecodeALaw expands one G.711 A-law byte to a linear 16-bit sample.
func DecodeALaw(a byte) int16 {
	a ^= 0x55
	t := int(a&0x0f) << 4
	switch seg := int(a&0x70) >> 4; seg {
	case 0:
		t += 8
	case 1:
		t += 0x108
	default:
		t += 0x108
		t <<= seg - 1
	}
	if a&0x80 != 0 {
		return int16(t)
	}
	return int16(-t)
}

// EncodeALaw compresses a linear 16-bit sample to G.711 A-law.
func EncodeALaw(pcm int16) byte {
	v := int(pcm) >> 3
	mask := byte(0xd5)
	if v < 0 {
		mask = 0x55
		v = -v - 1
	}

	seg := 0
	for seg < len(alawSegEnd) && v > alawSegEnd[seg] {
		seg++
	}
	if seg >= len(alawSegEnd) {
		return 0x7f ^ mask
	}

	aval := byte(seg << 4)
	if seg < 2 {
		aval |= byte(v>>1) & 0x0f
	} else {
		aval |= byte(v>>seg) & 0x0f
	}
	return aval ^ mask
}

// DecodeALawSamples expands a whole A-law buffer.
func DecodeALawSamples(data []byte) []int16 {
	out := make([]int16, len(data))
	for i, b := range data {
		out[i] = DecodeALaw(b)
	}
	return out
}

// EncodeALawSamples compresses a whole PCM buffer.
func EncodeALawSamples(pcm []int16) []byte {
	out := make([]byte, len(pcm))
	for i, s := range pcm {
		out[i] = EncodeALaw(s)
	}
	return out
}
