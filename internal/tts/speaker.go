package tts

import (
	"time"

	"github.com/mar0der/ClaudeCodeTools/internal/config"
	. "github.com/mar0der/ClaudeCodeTools/internal/logging"
)

// Speaker composes the fallback chain: when the cloud endpoint is
// reachable the Edge neural voice is tried first, otherwise (or when the
// cloud attempt fails) the OS-native voice speaks.
type Speaker struct {
	probe        func() bool
	cloud        Engine
	local        *LocalEngine
	defaultVoice int
}

// NewSpeaker wires the standard chain from config.
func NewSpeaker(cfg config.TTSConfig) *Speaker {
	player := NewPlayer()
	cloud := NewEdgeEngine(EdgeConfig{
		Voice:   cfg.Voice,
		Timeout: time.Duration(cfg.CloudTimeoutSec) * time.Second,
	}, player)
	local := NewLocalEngine(NewNativeSynthesizer(), cfg.Rate, cfg.Pitch, cfg.Volume)

	defaultVoice := cfg.FallbackVoice
	if defaultVoice == 0 {
		defaultVoice = DefaultVoiceIndex
	}

	return &Speaker{
		probe:        Reachable,
		cloud:        cloud,
		local:        local,
		defaultVoice: defaultVoice,
	}
}

// Voices exposes the local engine's English voice list for display.
func (s *Speaker) Voices() ([]Voice, error) {
	return s.local.Voices()
}

// Speak speaks message, cloud first when reachable, native otherwise.
// voiceIndex selects the fallback voice (0 = configured default). Cloud
// errors are non-fatal; only a failed fallback surfaces to the caller.
func (s *Speaker) Speak(message string, voiceIndex int) error {
	if s.probe() {
		L_info("tts: network reachable, using cloud neural voice")
		if err := s.cloud.Speak(message); err == nil {
			return nil
		} else {
			L_warn("tts: cloud voice failed, falling back to native", "engine", s.cloud.Name(), "error", err)
		}
	} else {
		L_info("tts: no network connection, using native fallback voice")
	}

	idx := voiceIndex
	if idx == 0 {
		idx = s.defaultVoice
	}
	return s.local.SpeakIndex(message, idx)
}
