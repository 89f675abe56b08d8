package tts

import (
	"errors"
	"fmt"
	"testing"
)

// fakeEngine is a scripted cloud engine.
type fakeEngine struct {
	err   error
	calls int
}

func (f *fakeEngine) Speak(message string) error {
	f.calls++
	return f.err
}

func (f *fakeEngine) Name() string { return "fake-cloud" }

// fakeSynth serves a static voice list and records utterances.
type fakeSynth struct {
	voices []Voice
	spoken []Voice
	utts   []Utterance
	err    error
}

func (f *fakeSynth) Voices() ([]Voice, error) {
	return f.voices, f.err
}

func (f *fakeSynth) Speak(utt Utterance, voice Voice) error {
	f.spoken = append(f.spoken, voice)
	f.utts = append(f.utts, utt)
	return nil
}

func tenVoices() []Voice {
	voices := make([]Voice, 10)
	for i := range voices {
		voices[i] = Voice{
			Name:       fmt.Sprintf("Voice%d", i+1),
			Language:   "en-US",
			Identifier: fmt.Sprintf("voice.%d", i+1),
			Quality:    QualityStandard,
		}
	}
	voices[6].Name = "Daniel" // index 7, 1-based
	return voices
}

func newTestSpeaker(reachable bool, cloud *fakeEngine, synth *fakeSynth) *Speaker {
	return &Speaker{
		probe:        func() bool { return reachable },
		cloud:        cloud,
		local:        NewLocalEngine(synth, 0, 0, 0),
		defaultVoice: DefaultVoiceIndex,
	}
}

func TestSpeakUnreachableSkipsCloud(t *testing.T) {
	cloud := &fakeEngine{}
	synth := &fakeSynth{voices: tenVoices()}
	s := newTestSpeaker(false, cloud, synth)

	if err := s.Speak("hello", 0); err != nil {
		t.Fatalf("Speak failed: %v", err)
	}
	if cloud.calls != 0 {
		t.Errorf("cloud invoked %d times while unreachable, want 0", cloud.calls)
	}
	if len(synth.spoken) != 1 {
		t.Fatalf("local utterances: got %d, want 1", len(synth.spoken))
	}
	if synth.spoken[0].Name != "Daniel" {
		t.Errorf("default voice: got %q, want %q", synth.spoken[0].Name, "Daniel")
	}
}

func TestSpeakUnreachableUsesSuppliedIndex(t *testing.T) {
	cloud := &fakeEngine{}
	synth := &fakeSynth{voices: tenVoices()}
	s := newTestSpeaker(false, cloud, synth)

	if err := s.Speak("hello", 3); err != nil {
		t.Fatalf("Speak failed: %v", err)
	}
	if len(synth.spoken) != 1 {
		t.Fatalf("local utterances: got %d, want 1", len(synth.spoken))
	}
	if synth.spoken[0].Name != "Voice3" {
		t.Errorf("voice: got %q, want %q", synth.spoken[0].Name, "Voice3")
	}
}

func TestSpeakCloudSuccessSkipsLocal(t *testing.T) {
	cloud := &fakeEngine{}
	synth := &fakeSynth{voices: tenVoices()}
	s := newTestSpeaker(true, cloud, synth)

	if err := s.Speak("hello", 0); err != nil {
		t.Fatalf("Speak failed: %v", err)
	}
	if cloud.calls != 1 {
		t.Errorf("cloud calls: got %d, want 1", cloud.calls)
	}
	if len(synth.spoken) != 0 {
		t.Errorf("local invoked %d times after cloud success, want 0", len(synth.spoken))
	}
}

func TestSpeakCloudFailureFallsBack(t *testing.T) {
	cloud := &fakeEngine{err: errors.New("synthesis refused")}
	synth := &fakeSynth{voices: tenVoices()}
	s := newTestSpeaker(true, cloud, synth)

	if err := s.Speak("hello", 0); err != nil {
		t.Fatalf("Speak failed: %v", err)
	}
	if cloud.calls != 1 {
		t.Errorf("cloud calls: got %d, want 1", cloud.calls)
	}
	if len(synth.spoken) != 1 {
		t.Errorf("local utterances after cloud failure: got %d, want 1", len(synth.spoken))
	}
}

func TestSpeakLocalOutOfRangeIndex(t *testing.T) {
	synth := &fakeSynth{voices: tenVoices()}
	e := NewLocalEngine(synth, 0, 0, 0)

	if err := e.SpeakIndex("hello", 999); err != nil {
		t.Fatalf("SpeakIndex failed: %v", err)
	}
	if len(synth.spoken) != 1 {
		t.Fatalf("utterances: got %d, want 1", len(synth.spoken))
	}
	if synth.spoken[0].Name != "Daniel" {
		t.Errorf("fallback voice: got %q, want %q", synth.spoken[0].Name, "Daniel")
	}
}

func TestSpeakLocalDefaultParameters(t *testing.T) {
	synth := &fakeSynth{voices: tenVoices()}
	e := NewLocalEngine(synth, 0, 0, 0)

	if err := e.SpeakIndex("hello", 1); err != nil {
		t.Fatalf("SpeakIndex failed: %v", err)
	}
	utt := synth.utts[0]
	if utt.Rate != 0.5 || utt.Pitch != 1.0 || utt.Volume != 1.0 {
		t.Errorf("utterance parameters: got rate=%v pitch=%v volume=%v, want 0.5/1.0/1.0",
			utt.Rate, utt.Pitch, utt.Volume)
	}
	if utt.Message != "hello" {
		t.Errorf("message: got %q, want %q", utt.Message, "hello")
	}
}

func TestVoicesStableWithinProcess(t *testing.T) {
	synth := &fakeSynth{voices: tenVoices()}
	e := NewLocalEngine(synth, 0, 0, 0)

	first, err := e.Voices()
	if err != nil {
		t.Fatalf("Voices failed: %v", err)
	}

	// Even if the OS source changes between calls, enumerated indices
	// stay stable for the process lifetime.
	synth.voices = synth.voices[:3]

	second, err := e.Voices()
	if err != nil {
		t.Fatalf("Voices failed: %v", err)
	}
	if len(second) != len(first) {
		t.Fatalf("voice count changed: got %d, want %d", len(second), len(first))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("voice %d changed between calls: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestSpeakLocalNoVoices(t *testing.T) {
	synth := &fakeSynth{}
	e := NewLocalEngine(synth, 0, 0, 0)

	if err := e.SpeakIndex("hello", 1); err == nil {
		t.Fatal("expected error with no voices available")
	}
}

func TestSpeakLocalVoiceEnumerationError(t *testing.T) {
	synth := &fakeSynth{err: errors.New("no synthesizer")}
	e := NewLocalEngine(synth, 0, 0, 0)

	if err := e.SpeakIndex("hello", 1); err == nil {
		t.Fatal("expected error when enumeration fails")
	}
}
