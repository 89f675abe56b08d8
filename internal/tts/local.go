package tts

import (
	"fmt"

	. "github.com/mar0der/ClaudeCodeTools/internal/logging"
)

// DefaultVoiceIndex is the 1-based fallback voice ("Daniel" on macOS).
const DefaultVoiceIndex = 7

// Synthesizer is an OS-native speech synthesizer: it enumerates the
// installed English voices and speaks one utterance with a chosen voice,
// blocking until synthesis completes.
type Synthesizer interface {
	Voices() ([]Voice, error)
	Speak(utt Utterance, voice Voice) error
}

// LocalEngine speaks through the OS synthesizer, selecting a voice by its
// 1-based index into the English voice list.
type LocalEngine struct {
	synth  Synthesizer
	voices []Voice // enumerated once per process for stable indices
	rate   float64
	pitch  float64
	volume float64
}

// NewLocalEngine builds the OS fallback engine with the given utterance
// parameters (zero values get the classic defaults: rate 0.5, pitch 1.0,
// volume 1.0).
func NewLocalEngine(synth Synthesizer, rate, pitch, volume float64) *LocalEngine {
	if rate == 0 {
		rate = 0.5
	}
	if pitch == 0 {
		pitch = 1.0
	}
	if volume == 0 {
		volume = 1.0
	}
	return &LocalEngine{synth: synth, rate: rate, pitch: pitch, volume: volume}
}

// Voices returns the English OS voices in stable OS order. Nothing is
// persisted: the list is enumerated from the OS on first use, then held
// for the process lifetime so that 1-based indices shown to the user
// cannot shift between enumeration and speaking.
func (e *LocalEngine) Voices() ([]Voice, error) {
	if e.voices != nil {
		return e.voices, nil
	}
	voices, err := e.synth.Voices()
	if err != nil {
		return nil, err
	}
	e.voices = voices
	return voices, nil
}

// SpeakIndex speaks message with the voice at the 1-based voiceIndex.
// An out-of-range index falls back to DefaultVoiceIndex with a warning;
// if even that is out of range the last voice is used.
func (e *LocalEngine) SpeakIndex(message string, voiceIndex int) error {
	voices, err := e.Voices()
	if err != nil {
		return fmt.Errorf("enumerate voices: %w", err)
	}
	if len(voices) == 0 {
		return fmt.Errorf("no English voices available")
	}

	idx := voiceIndex
	if idx < 1 || idx > len(voices) {
		L_warn("tts: invalid voice index, using default", "requested", voiceIndex, "default", DefaultVoiceIndex)
		idx = DefaultVoiceIndex
	}
	if idx > len(voices) {
		idx = len(voices)
	}

	voice := voices[idx-1]
	L_info("tts: using native voice", "voice", voice.Name, "language", voice.Language)

	utt := Utterance{
		Message: message,
		Rate:    e.rate,
		Pitch:   e.pitch,
		Volume:  e.volume,
	}
	return e.synth.Speak(utt, voice)
}

// Speak satisfies Engine using the default voice index.
func (e *LocalEngine) Speak(message string) error {
	return e.SpeakIndex(message, DefaultVoiceIndex)
}

// Name returns the engine name.
func (e *LocalEngine) Name() string {
	return "native"
}
