package stt

import (
	"os"
	"path/filepath"
)

// WhisperModel describes one entry in the whisper.cpp model catalog.
type WhisperModel struct {
	Size      string // Short name: "tiny", "base", ...
	Name      string // Filename: "ggml-tiny.bin"
	Label     string // Display name
	SizeHuman string // Human readable download size
	SizeBytes int64  // For progress calculation
	Memory    string // Approximate RAM while loaded
	URL       string // Download URL
}

// WhisperModels is the catalog of known whisper.cpp model sizes.
// Models from: https://huggingface.co/ggerganov/whisper.cpp
var WhisperModels = []WhisperModel{
	{
		Size:      "tiny",
		Name:      "ggml-tiny.bin",
		Label:     "Tiny",
		SizeHuman: "39 MB",
		SizeBytes: 39_000_000,
		Memory:    "~40MB, fastest",
		URL:       "https://huggingface.co/ggerganov/whisper.cpp/resolve/main/ggml-tiny.bin",
	},
	{
		Size:      "base",
		Name:      "ggml-base.bin",
		Label:     "Base",
		SizeHuman: "142 MB",
		SizeBytes: 142_000_000,
		Memory:    "~150MB, good quality",
		URL:       "https://huggingface.co/ggerganov/whisper.cpp/resolve/main/ggml-base.bin",
	},
	{
		Size:      "small",
		Name:      "ggml-small.bin",
		Label:     "Small",
		SizeHuman: "466 MB",
		SizeBytes: 466_000_000,
		Memory:    "~500MB, better quality",
		URL:       "https://huggingface.co/ggerganov/whisper.cpp/resolve/main/ggml-small.bin",
	},
	{
		Size:      "medium",
		Name:      "ggml-medium.bin",
		Label:     "Medium",
		SizeHuman: "1.5 GB",
		SizeBytes: 1_500_000_000,
		Memory:    "~1.5GB, high quality",
		URL:       "https://huggingface.co/ggerganov/whisper.cpp/resolve/main/ggml-medium.bin",
	},
	{
		Size:      "large",
		Name:      "ggml-large-v3.bin",
		Label:     "Large",
		SizeHuman: "2.9 GB",
		SizeBytes: 2_900_000_000,
		Memory:    "~3GB, best quality",
		URL:       "https://huggingface.co/ggerganov/whisper.cpp/resolve/main/ggml-large-v3.bin",
	},
}

// FindModel looks up a catalog entry by size name or filename.
// Returns nil if unknown.
func FindModel(nameOrSize string) *WhisperModel {
	for i := range WhisperModels {
		if WhisperModels[i].Size == nameOrSize || WhisperModels[i].Name == nameOrSize {
			return &WhisperModels[i]
		}
	}
	return nil
}

// IsModelDownloaded reports whether the model file exists in modelsDir.
func IsModelDownloaded(modelsDir, name string) bool {
	if m := FindModel(name); m != nil {
		name = m.Name
	}
	info, err := os.Stat(filepath.Join(modelsDir, name))
	return err == nil && info.Size() > 0
}
