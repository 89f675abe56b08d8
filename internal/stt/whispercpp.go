package stt

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"

	. "github.com/mar0der/ClaudeCodeTools/internal/logging"
)

// WhisperCppConfig holds configuration for the local whisper.cpp engine.
type WhisperCppConfig struct {
	ModelsDir string `json:"modelsDir"` // Directory containing whisper models
	Model     string `json:"model"`     // Model size ("tiny") or filename ("ggml-tiny.bin")
	Language  string `json:"language"`  // Language code ("en", "auto" for detection)
	Threads   uint   `json:"threads"`   // Number of threads (0 = auto)
}

// WhisperCppProvider implements STT using whisper.cpp. The model is loaded
// lazily on the first Transcribe call and kept for the process lifetime.
type WhisperCppProvider struct {
	config   WhisperCppConfig
	loadOnce sync.Once
	loadErr  error
	model    whisper.Model
}

// NewWhisperCppProvider creates a local whisper.cpp STT engine. The model
// file is not touched until the first transcription.
func NewWhisperCppProvider(cfg WhisperCppConfig) (*WhisperCppProvider, error) {
	if cfg.ModelsDir == "" {
		return nil, fmt.Errorf("whisper.cpp modelsDir not configured")
	}
	if cfg.Model == "" {
		cfg.Model = "tiny"
	}

	return &WhisperCppProvider{config: cfg}, nil
}

// load resolves and loads the model file, once.
func (w *WhisperCppProvider) load() error {
	w.loadOnce.Do(func() {
		name := w.config.Model
		if m := FindModel(name); m != nil {
			name = m.Name
		}
		modelPath := filepath.Join(w.config.ModelsDir, name)

		L_info("stt: loading whisper.cpp model", "path", modelPath)

		model, err := whisper.New(modelPath)
		if err != nil {
			w.loadErr = fmt.Errorf("load whisper model: %w", err)
			return
		}

		L_info("stt: whisper.cpp model loaded", "multilingual", model.IsMultilingual())
		w.model = model
	})
	return w.loadErr
}

// Transcribe converts an audio file to text using whisper.cpp.
func (w *WhisperCppProvider) Transcribe(filePath string) (string, error) {
	if err := w.load(); err != nil {
		return "", err
	}

	L_debug("stt: whisper.cpp transcribing", "file", filePath)

	// Convert audio to 16kHz mono float32 (required by whisper.cpp)
	samples, err := ConvertToFloat32(filePath)
	if err != nil {
		return "", fmt.Errorf("convert audio: %w", err)
	}

	L_debug("stt: audio converted", "samples", len(samples), "duration_sec", float64(len(samples))/16000.0)

	ctx, err := w.model.NewContext()
	if err != nil {
		return "", fmt.Errorf("create whisper context: %w", err)
	}

	if w.config.Language != "" {
		if err := ctx.SetLanguage(w.config.Language); err != nil {
			L_warn("stt: failed to set language", "language", w.config.Language, "error", err)
		}
	}
	if w.config.Threads > 0 {
		ctx.SetThreads(w.config.Threads)
	}

	if err := ctx.Process(samples, nil, nil, nil); err != nil {
		return "", fmt.Errorf("whisper process: %w", err)
	}

	// Collect all segments
	var text strings.Builder
	for {
		segment, err := ctx.NextSegment()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("get segment: %w", err)
		}
		text.WriteString(segment.Text)
	}

	result := strings.TrimSpace(text.String())
	L_debug("stt: whisper.cpp transcription complete", "length", len(result))

	return result, nil
}

// Name returns the engine name.
func (w *WhisperCppProvider) Name() string {
	return "whispercpp"
}

// Close releases the whisper model if it was loaded.
func (w *WhisperCppProvider) Close() error {
	if w.model == nil {
		return nil
	}
	L_debug("stt: closing whisper.cpp model")
	return w.model.Close()
}
