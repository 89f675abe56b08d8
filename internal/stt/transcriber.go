package stt

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mar0der/ClaudeCodeTools/internal/config"
	. "github.com/mar0der/ClaudeCodeTools/internal/logging"
	"github.com/mar0der/ClaudeCodeTools/internal/paths"
)

// Transcriber runs an ordered list of engines over one audio file until
// one of them produces text. One attempt per engine, no retries, first
// success wins. Engine failures are logged and swallowed; the caller only
// sees an error when every engine has failed.
type Transcriber struct {
	providers []Provider
}

// NewTranscriber builds a transcriber over the given engines, tried in order.
func NewTranscriber(providers ...Provider) *Transcriber {
	return &Transcriber{providers: providers}
}

// NewDefaultTranscriber wires the standard engine chain from config:
// local whisper.cpp first, AssemblyAI cloud fallback second.
func NewDefaultTranscriber(cfg config.STTConfig) (*Transcriber, error) {
	modelsDir := cfg.ModelsDir
	if modelsDir == "" {
		dir, err := paths.DefaultModelsDir()
		if err != nil {
			return nil, err
		}
		modelsDir = dir
	} else {
		dir, err := paths.ExpandTilde(modelsDir)
		if err != nil {
			return nil, fmt.Errorf("expand models dir: %w", err)
		}
		modelsDir = dir
	}

	local, err := NewWhisperCppProvider(WhisperCppConfig{
		ModelsDir: modelsDir,
		Model:     cfg.Model,
		Language:  cfg.Language,
		Threads:   cfg.Threads,
	})
	if err != nil {
		return nil, fmt.Errorf("init whispercpp: %w", err)
	}

	cloud := NewAssemblyAIProvider(AssemblyAIConfig{
		APIKey:  cfg.AssemblyAIKey,
		Timeout: time.Duration(cfg.CloudTimeoutSec) * time.Second,
	})

	return NewTranscriber(local, cloud), nil
}

// Transcribe produces a transcript for filePath, or an error when the file
// is missing or every engine failed. A missing file aborts before any
// engine is attempted.
func (t *Transcriber) Transcribe(filePath string) (string, error) {
	if _, err := os.Stat(filePath); err != nil {
		return "", fmt.Errorf("audio file not found: %s", filePath)
	}

	for _, p := range t.providers {
		text, err := p.Transcribe(filePath)
		if err != nil {
			L_warn("stt: engine attempt failed", "engine", p.Name(), "error", err)
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			L_warn("stt: engine returned empty transcript", "engine", p.Name())
			continue
		}
		L_info("stt: transcribed", "engine", p.Name(), "length", len(text))
		return text, nil
	}

	return "", fmt.Errorf("all transcription engines failed")
}

// Close releases every engine.
func (t *Transcriber) Close() {
	for _, p := range t.providers {
		if err := p.Close(); err != nil {
			L_warn("stt: failed to close engine", "engine", p.Name(), "error", err)
		}
	}
}
