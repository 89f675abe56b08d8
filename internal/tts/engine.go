// Package tts provides text-to-speech with a cloud neural voice and an
// OS-native fallback.
package tts

// Engine is the interface for TTS implementations.
type Engine interface {
	// Speak synthesizes and plays message, blocking until playback ends.
	Speak(message string) error

	// Name returns the engine name (e.g., "edge", "native")
	Name() string
}

// Voice quality tiers as reported by the OS.
const (
	QualityStandard = 1
	QualityPremium  = 2
)

// Voice describes one OS-native synthesis voice.
type Voice struct {
	Name       string
	Language   string // BCP-47 style tag, e.g. "en-US"
	Identifier string // Opaque OS identifier
	Quality    int    // QualityStandard or QualityPremium
}

// Utterance is one message plus its delivery parameters. Rate 0.5 is
// normal speed, pitch and volume are multipliers with 1.0 neutral.
type Utterance struct {
	Message string
	Rate    float64
	Pitch   float64
	Volume  float64
}
