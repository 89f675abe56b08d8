package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/mar0der/ClaudeCodeTools/internal/config"
	. "github.com/mar0der/ClaudeCodeTools/internal/logging"
	"github.com/mar0der/ClaudeCodeTools/internal/paths"
	"github.com/mar0der/ClaudeCodeTools/internal/stt"
)

var cli struct {
	Record   bool   `help:"Record from the microphone, then transcribe."`
	Live     bool   `help:"Interactive press-to-toggle transcription loop."`
	Models   bool   `help:"List known whisper model sizes."`
	Download string `help:"Download a whisper model by size (e.g. tiny)." placeholder:"SIZE"`
	Debug    bool   `help:"Enable debug logging."`

	Target string `arg:"" optional:"" help:"Audio file to transcribe, or seconds with --record."`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("stt"),
		kong.Description("Speech-to-text hook tool: local whisper.cpp with an AssemblyAI cloud fallback."),
	)

	level := LevelInfo
	if cli.Debug {
		level = LevelDebug
	}
	Init(&Config{Level: level, TimeFormat: "15:04:05"})

	cfg, err := config.Load()
	if err != nil {
		L_fatal("failed to load config: %v", err)
	}

	switch {
	case cli.Models:
		printModels(cfg.STT)

	case cli.Download != "":
		downloadModel(cfg.STT, cli.Download)

	case cli.Record:
		recordAndTranscribe(cfg.STT)

	case cli.Live:
		runLive(cfg.STT)

	case cli.Target != "":
		transcribeFile(cfg.STT, cli.Target)

	default:
		ctx.PrintUsage(false)
		os.Exit(1)
	}
}

func newTranscriber(cfg config.STTConfig) *stt.Transcriber {
	t, err := stt.NewDefaultTranscriber(cfg)
	if err != nil {
		L_fatal("failed to initialize transcription engines: %v", err)
	}
	return t
}

func modelsDir(cfg config.STTConfig) string {
	dir := cfg.ModelsDir
	if dir == "" {
		d, err := paths.DefaultModelsDir()
		if err != nil {
			L_fatal("resolve models dir: %v", err)
		}
		return d
	}
	d, err := paths.ExpandTilde(dir)
	if err != nil {
		L_fatal("expand models dir: %v", err)
	}
	return d
}

func printModels(cfg config.STTConfig) {
	dir := modelsDir(cfg)
	fmt.Println("Available whisper models (local):")
	for _, m := range stt.WhisperModels {
		marker := ""
		if stt.IsModelDownloaded(dir, m.Name) {
			marker = " [installed]"
		}
		fmt.Printf("  %-6s - %s, %s%s\n", m.Size, m.SizeHuman, m.Memory, marker)
	}
	fmt.Printf("\nModel directory: %s\n", dir)
}

func downloadModel(cfg config.STTConfig, size string) {
	model := stt.FindModel(size)
	if model == nil {
		L_fatal("unknown model size: %s", size)
	}
	dir := modelsDir(cfg)
	if stt.IsModelDownloaded(dir, model.Name) {
		L_info("stt: model already downloaded", "model", model.Name, "dir", dir)
		return
	}
	if err := stt.DownloadModel(model, dir); err != nil {
		L_fatal("download failed: %v", err)
	}
}

func recordAndTranscribe(cfg config.STTConfig) {
	seconds := 5
	if cli.Target != "" {
		n, err := strconv.Atoi(cli.Target)
		if err != nil || n < 0 {
			L_fatal("invalid duration: %s", cli.Target)
		}
		seconds = n
	}

	file, err := stt.Record(seconds, "")
	if err != nil {
		L_fatal("recording failed: %v", err)
	}
	defer os.Remove(file) // best-effort cleanup

	t := newTranscriber(cfg)
	defer t.Close()

	text, err := t.Transcribe(file)
	if err != nil {
		L_error("transcription failed", "error", err)
		os.Exit(1)
	}
	fmt.Printf("\nTranscription: %s\n", text)
}

func runLive(cfg config.STTConfig) {
	t := newTranscriber(cfg)
	defer t.Close()

	session, err := stt.NewLiveSession(t)
	if err != nil {
		L_fatal("cannot start live mode: %v", err)
	}
	if err := session.Run(); err != nil {
		L_fatal("live mode failed: %v", err)
	}
}

func transcribeFile(cfg config.STTConfig, path string) {
	t := newTranscriber(cfg)
	defer t.Close()

	text, err := t.Transcribe(path)
	if err != nil {
		L_error("transcription failed", "error", err)
		os.Exit(1)
	}
	fmt.Printf("\nTranscription: %s\n", text)
}
