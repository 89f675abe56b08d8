package stt

import (
	"errors"
	"path/filepath"
	"testing"
)

// fakeProvider is a scripted STT engine that records the paths it was
// asked to transcribe.
type fakeProvider struct {
	name  string
	text  string
	err   error
	calls []string
}

func (f *fakeProvider) Transcribe(filePath string) (string, error) {
	f.calls = append(f.calls, filePath)
	return f.text, f.err
}

func (f *fakeProvider) Name() string { return f.name }
func (f *fakeProvider) Close() error { return nil }

func tempAudioFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "take.wav")
	if err := WriteWAV(path, nil); err != nil {
		t.Fatalf("WriteWAV failed: %v", err)
	}
	return path
}

func TestTranscribeLocalShortCircuits(t *testing.T) {
	local := &fakeProvider{name: "local", text: "hello world"}
	cloud := &fakeProvider{name: "cloud", text: "should not run"}
	tr := NewTranscriber(local, cloud)

	path := tempAudioFile(t)
	text, err := tr.Transcribe(path)
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if text != "hello world" {
		t.Errorf("transcript mismatch: got %q, want %q", text, "hello world")
	}
	if len(local.calls) != 1 {
		t.Errorf("local calls: got %d, want 1", len(local.calls))
	}
	if len(cloud.calls) != 0 {
		t.Errorf("cloud was invoked %d times, want 0", len(cloud.calls))
	}
}

func TestTranscribeFallsThroughOnError(t *testing.T) {
	local := &fakeProvider{name: "local", err: errors.New("model not found")}
	cloud := &fakeProvider{name: "cloud", text: "from the cloud"}
	tr := NewTranscriber(local, cloud)

	path := tempAudioFile(t)
	text, err := tr.Transcribe(path)
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if text != "from the cloud" {
		t.Errorf("transcript mismatch: got %q, want %q", text, "from the cloud")
	}
	if len(cloud.calls) != 1 {
		t.Fatalf("cloud calls: got %d, want 1", len(cloud.calls))
	}
	if cloud.calls[0] != path {
		t.Errorf("cloud got path %q, want %q", cloud.calls[0], path)
	}
}

func TestTranscribeMissingFileSkipsEngines(t *testing.T) {
	local := &fakeProvider{name: "local", text: "never"}
	cloud := &fakeProvider{name: "cloud", text: "never"}
	tr := NewTranscriber(local, cloud)

	_, err := tr.Transcribe(filepath.Join(t.TempDir(), "nope.wav"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if len(local.calls) != 0 || len(cloud.calls) != 0 {
		t.Errorf("engines invoked for missing file: local=%d cloud=%d", len(local.calls), len(cloud.calls))
	}
}

func TestTranscribeAllEnginesFail(t *testing.T) {
	local := &fakeProvider{name: "local", err: errors.New("boom")}
	cloud := &fakeProvider{name: "cloud", err: errors.New("also boom")}
	tr := NewTranscriber(local, cloud)

	_, err := tr.Transcribe(tempAudioFile(t))
	if err == nil {
		t.Fatal("expected error when every engine fails")
	}
}

func TestTranscribeEmptyResultIsFailure(t *testing.T) {
	// Whitespace-only output counts as no transcript.
	local := &fakeProvider{name: "local", text: "   "}
	cloud := &fakeProvider{name: "cloud", text: ""}
	tr := NewTranscriber(local, cloud)

	_, err := tr.Transcribe(tempAudioFile(t))
	if err == nil {
		t.Fatal("expected error when engines return empty transcripts")
	}
	if len(cloud.calls) != 1 {
		t.Errorf("cloud calls: got %d, want 1 (empty local result must fall through)", len(cloud.calls))
	}
}

func TestTranscribeTrimsWhitespace(t *testing.T) {
	local := &fakeProvider{name: "local", text: "  tidy result \n"}
	tr := NewTranscriber(local)

	text, err := tr.Transcribe(tempAudioFile(t))
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if text != "tidy result" {
		t.Errorf("transcript not trimmed: got %q", text)
	}
}

func TestCloseClosesAllEngines(t *testing.T) {
	tr := NewTranscriber(&fakeProvider{name: "a"}, &fakeProvider{name: "b"})
	tr.Close()
}
