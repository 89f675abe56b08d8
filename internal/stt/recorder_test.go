package stt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

func TestChunksForDuration(t *testing.T) {
	// floor(16000/1024 * d) chunks
	tests := []struct {
		seconds int
		want    int
	}{
		{0, 0},
		{1, 15},
		{5, 78},
		{10, 156},
	}
	for _, tt := range tests {
		if got := ChunksForDuration(tt.seconds); got != tt.want {
			t.Errorf("ChunksForDuration(%d) = %d, want %d", tt.seconds, got, tt.want)
		}
	}
}

func TestWriteWAVRoundTrip(t *testing.T) {
	frames := [][]int16{
		{0, 100, -100, 32000},
		{-32000, 1, 2, 3},
	}
	path := filepath.Join(t.TempDir(), "out.wav")
	if err := WriteWAV(path, frames); err != nil {
		t.Fatalf("WriteWAV failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open wav: %v", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("decode wav: %v", err)
	}

	if buf.Format.SampleRate != sampleRate {
		t.Errorf("sample rate: got %d, want %d", buf.Format.SampleRate, sampleRate)
	}
	if buf.Format.NumChannels != channels {
		t.Errorf("channels: got %d, want %d", buf.Format.NumChannels, channels)
	}
	if len(buf.Data) != 8 {
		t.Fatalf("frame count: got %d, want 8", len(buf.Data))
	}

	want := []int{0, 100, -100, 32000, -32000, 1, 2, 3}
	for i, v := range want {
		if buf.Data[i] != v {
			t.Errorf("sample %d: got %d, want %d", i, buf.Data[i], v)
		}
	}
}

func TestWriteWAVZeroFrames(t *testing.T) {
	// A zero-second recording still produces a valid, empty container.
	path := filepath.Join(t.TempDir(), "empty.wav")
	if err := WriteWAV(path, nil); err != nil {
		t.Fatalf("WriteWAV failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open wav: %v", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("decode wav: %v", err)
	}
	if len(buf.Data) != 0 {
		t.Errorf("frame count: got %d, want 0", len(buf.Data))
	}
}

func TestZeroFrameFileFailsBothEngines(t *testing.T) {
	// Scenario: --record 0 -> empty WAV -> both engines fail -> overall failure.
	path := filepath.Join(t.TempDir(), "empty.wav")
	if err := WriteWAV(path, nil); err != nil {
		t.Fatalf("WriteWAV failed: %v", err)
	}

	local := &fakeProvider{name: "local", text: ""}
	cloud := &fakeProvider{name: "cloud", text: ""}
	tr := NewTranscriber(local, cloud)

	if _, err := tr.Transcribe(path); err == nil {
		t.Fatal("expected failure transcribing an empty recording")
	}
	if len(local.calls) != 1 || len(cloud.calls) != 1 {
		t.Errorf("attempt counts: local=%d cloud=%d, want 1 each", len(local.calls), len(cloud.calls))
	}
}

func writeDepthWAV(t *testing.T, path string, bitDepth int, data []int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create wav: %v", err)
	}
	enc := wav.NewEncoder(f, sampleRate, bitDepth, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("write wav: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close encoder: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close wav: %v", err)
	}
}

func TestConvertWav24Bit(t *testing.T) {
	// 24-bit samples must be rescaled, not truncated to their low 16 bits.
	// 4194304 is half of 24-bit full scale (2^23).
	path := filepath.Join(t.TempDir(), "deep.wav")
	writeDepthWAV(t, path, 24, []int{4194304, 0, -4194304})

	samples, err := ConvertToFloat32(path)
	if err != nil {
		t.Fatalf("ConvertToFloat32 failed: %v", err)
	}
	if len(samples) != 3 {
		t.Fatalf("sample count: got %d, want 3", len(samples))
	}
	if samples[0] != 0.5 {
		t.Errorf("sample 0: got %v, want 0.5", samples[0])
	}
	if samples[1] != 0 {
		t.Errorf("sample 1: got %v, want 0", samples[1])
	}
	if samples[2] != -0.5 {
		t.Errorf("sample 2: got %v, want -0.5", samples[2])
	}
}

func TestConvertWav8Bit(t *testing.T) {
	// 8-bit WAV is unsigned with 128 as silence.
	path := filepath.Join(t.TempDir(), "shallow.wav")
	writeDepthWAV(t, path, 8, []int{192, 128, 64})

	samples, err := ConvertToFloat32(path)
	if err != nil {
		t.Fatalf("ConvertToFloat32 failed: %v", err)
	}
	if len(samples) != 3 {
		t.Fatalf("sample count: got %d, want 3", len(samples))
	}
	if samples[0] != 0.5 {
		t.Errorf("sample 0: got %v, want 0.5", samples[0])
	}
	if samples[1] != 0 {
		t.Errorf("sample 1: got %v, want 0", samples[1])
	}
	if samples[2] != -0.5 {
		t.Errorf("sample 2: got %v, want -0.5", samples[2])
	}
}

func TestConvertWavRecording(t *testing.T) {
	// Our own recordings decode to exactly their sample count, already at
	// the target rate.
	frames := [][]int16{make([]int16, chunkSize), make([]int16, chunkSize)}
	frames[0][0] = 16384 // 0.5 in float

	path := filepath.Join(t.TempDir(), "rec.wav")
	if err := WriteWAV(path, frames); err != nil {
		t.Fatalf("WriteWAV failed: %v", err)
	}

	samples, err := ConvertToFloat32(path)
	if err != nil {
		t.Fatalf("ConvertToFloat32 failed: %v", err)
	}
	if len(samples) != 2*chunkSize {
		t.Fatalf("sample count: got %d, want %d", len(samples), 2*chunkSize)
	}
	if samples[0] != 0.5 {
		t.Errorf("sample 0: got %v, want 0.5", samples[0])
	}
	if samples[1] != 0 {
		t.Errorf("sample 1: got %v, want 0", samples[1])
	}
}
