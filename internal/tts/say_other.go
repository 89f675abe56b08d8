//go:build !darwin && !linux

package tts

import "fmt"

// nativeSynth is a stub for platforms without a supported OS synthesizer.
type nativeSynth struct{}

// NewNativeSynthesizer returns the platform synthesizer.
func NewNativeSynthesizer() Synthesizer {
	return nativeSynth{}
}

func (nativeSynth) Voices() ([]Voice, error) {
	return nil, fmt.Errorf("no native speech synthesizer on this platform")
}

func (nativeSynth) Speak(utt Utterance, voice Voice) error {
	return fmt.Errorf("no native speech synthesizer on this platform")
}
