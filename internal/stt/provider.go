// Package stt provides speech-to-text transcription with engine fallback.
package stt

// Provider is the interface for STT engine implementations.
type Provider interface {
	// Transcribe converts an audio file to text.
	// filePath should be an audio file (WAV, OGG, etc.)
	Transcribe(filePath string) (string, error)

	// Name returns the engine name (e.g., "whispercpp", "assemblyai")
	Name() string

	// Close releases any resources held by the engine.
	Close() error
}
