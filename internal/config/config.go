// Package config loads and saves the tools configuration file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mar0der/ClaudeCodeTools/internal/logging"
	"github.com/mar0der/ClaudeCodeTools/internal/paths"
)

// STTConfig holds speech-to-text settings.
type STTConfig struct {
	ModelsDir       string `json:"modelsDir"`       // Directory containing whisper models ("" = ~/.claudetools/stt/whisper)
	Model           string `json:"model"`           // Model size: "tiny", "base", "small", "medium", "large"
	Language        string `json:"language"`        // Language code, "auto" for detection
	Threads         uint   `json:"threads"`         // Whisper threads (0 = auto)
	AssemblyAIKey   string `json:"assemblyaiKey"`   // Cloud fallback key; ASSEMBLYAI_API_KEY overrides
	CloudTimeoutSec int    `json:"cloudTimeoutSec"` // Budget for the cloud attempt, 0 = no timeout
}

// TTSConfig holds text-to-speech settings.
type TTSConfig struct {
	Voice           string  `json:"voice"`           // Cloud neural voice name
	FallbackVoice   int     `json:"fallbackVoice"`   // 1-based local voice index
	Rate            float64 `json:"rate"`            // Utterance rate
	Pitch           float64 `json:"pitch"`           // Utterance pitch multiplier
	Volume          float64 `json:"volume"`          // Utterance volume
	CloudTimeoutSec int     `json:"cloudTimeoutSec"` // Budget for cloud synthesis, 0 = no timeout
}

// Config is the root configuration document.
type Config struct {
	STT STTConfig `json:"stt"`
	TTS TTSConfig `json:"tts"`
}

// Default returns the configuration used when no file exists. The zero
// credential is fine: the cloud STT engine reads ASSEMBLYAI_API_KEY itself.
func Default() Config {
	return Config{
		STT: STTConfig{
			Model:           "tiny",
			Language:        "en",
			CloudTimeoutSec: 120,
		},
		TTS: TTSConfig{
			Voice:           "en-US-AriaNeural",
			FallbackVoice:   7,
			Rate:            0.5,
			Pitch:           1.0,
			Volume:          1.0,
			CloudTimeoutSec: 120,
		},
	}
}

// Load reads the active config file, falling back to defaults when none
// exists. A malformed file is an error; a missing one is not.
func Load() (Config, error) {
	cfg := Default()

	path, err := paths.ConfigPath()
	if err != nil {
		return cfg, err
	}
	if path == "" {
		logging.L_debug("config: no config file, using defaults")
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	logging.L_debug("config: loaded", "path", path)
	return cfg, nil
}

// Save writes the config atomically to the default location using the
// temp file + rename pattern for crash safety.
func Save(cfg Config) error {
	path, err := paths.DataPath("config.json")
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return atomicWrite(path, data, 0600)
}

// atomicWrite writes data to path atomically using temp file + rename.
func atomicWrite(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := paths.EnsureDir(dir); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".claudetools-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp to target: %w", err)
	}

	success = true
	return nil
}
