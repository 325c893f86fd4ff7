package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"oplhost/sound"
)

func TestWAVRoundTrip(t *testing.T) {
	pcm := []int16{0, 1, -1, 32767, -32768, 1234}
	var buf bytes.Buffer
	if err := writeWAV(&buf, pcm, 22050); err != nil {
		t.Fatalf("writeWAV: %v", err)
	}
	if buf.Len() != 44+2*len(pcm) {
		t.Fatalf("file size = %d, want %d", buf.Len(), 44+2*len(pcm))
	}
	got, rate, err := decodeWAV(buf.Bytes())
	if err != nil {
		t.Fatalf("decodeWAV: %v", err)
	}
	if rate != 22050 {
		t.Fatalf("rate = %d, want 22050", rate)
	}
	if len(got) != len(pcm) {
		t.Fatalf("len = %d, want %d", len(got), len(pcm))
	}
	for i := range pcm {
		if got[i] != pcm[i] {
			t.Fatalf("sample %d = %d, want %d", i, got[i], pcm[i])
		}
	}
}

func TestDecodeWAVRejectsBadInput(t *testing.T) {
	if _, _, err := decodeWAV([]byte("not a wav file at all")); err != errNotWAV {
		t.Fatalf("err = %v, want %v", err, errNotWAV)
	}

	var buf bytes.Buffer
	if err := writeWAV(&buf, []int16{1, 2}, 8000); err != nil {
		t.Fatalf("writeWAV: %v", err)
	}
	truncated := buf.Bytes()[:buf.Len()-2]
	if _, _, err := decodeWAV(truncated); err == nil {
		t.Fatalf("expected error for a truncated data chunk")
	}
}

func TestEncodeDecodeFiles(t *testing.T) {
	dir := t.TempDir()
	wavPath := filepath.Join(dir, "in.wav")
	wvePath := filepath.Join(dir, "out.wve")
	backPath := filepath.Join(dir, "back.wav")

	pcm := sound.Tone(16000, 440, 100*time.Millisecond)
	var buf bytes.Buffer
	if err := writeWAV(&buf, pcm, 16000); err != nil {
		t.Fatalf("writeWAV: %v", err)
	}
	if err := os.WriteFile(wavPath, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := encodeWAVToWVE(wavPath, wvePath, sound.Header{Repeats: 2}); err != nil {
		t.Fatalf("encode: %v", err)
	}
	data, err := os.ReadFile(wvePath)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	h, err := sound.ParseHeader(data)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if h.Samples != 800 || h.Repeats != 2 || h.Version != sound.WVEVersion {
		t.Fatalf("header = %+v", h)
	}

	if err := decodeWVEToWAV(wvePath, backPath, false); err != nil {
		t.Fatalf("decode: %v", err)
	}
	backData, err := os.ReadFile(backPath)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	back, rate, err := decodeWAV(backData)
	if err != nil {
		t.Fatalf("decodeWAV: %v", err)
	}
	if rate != sound.SampleRate || len(back) != 1600 {
		t.Fatalf("decoded rate=%d len=%d, want %d and 1600", rate, len(back), sound.SampleRate)
	}

	if err := decodeWVEToWAV(wavPath, backPath, false); err == nil {
		t.Fatalf("expected missing header error for a WAV input")
	}
}
