package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/mar0der/ClaudeCodeTools/internal/config"
	. "github.com/mar0der/ClaudeCodeTools/internal/logging"
	"github.com/mar0der/ClaudeCodeTools/internal/tts"
)

var cli struct {
	ListVoices bool `help:"List local English fallback voices."`
	Debug      bool `help:"Enable debug logging."`

	Message    string `arg:"" optional:"" help:"Message to speak."`
	VoiceIndex int    `arg:"" optional:"" help:"1-based fallback voice index."`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("tts"),
		kong.Description("Text-to-speech hook tool: Edge neural voice with an OS-native fallback."),
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

	speaker := tts.NewSpeaker(cfg.TTS)

	if cli.ListVoices {
		listVoices(speaker, cfg.TTS)
		return
	}

	if cli.Message == "" {
		ctx.PrintUsage(false)
		os.Exit(1)
	}

	if err := speaker.Speak(cli.Message, cli.VoiceIndex); err != nil {
		L_error("speech failed", "error", err)
		os.Exit(1)
	}
}

func listVoices(speaker *tts.Speaker, cfg config.TTSConfig) {
	voices, err := speaker.Voices()
	if err != nil {
		L_fatal("cannot list voices: %v", err)
	}

	defaultIdx := cfg.FallbackVoice
	if defaultIdx == 0 {
		defaultIdx = tts.DefaultVoiceIndex
	}

	fmt.Println("Available native voices (fallback):")
	fmt.Println("--------------------------------------------------")
	for i, v := range voices {
		quality := "Standard"
		if v.Quality == tts.QualityPremium {
			quality = "Premium"
		}
		marker := ""
		if i+1 == defaultIdx {
			marker = " <- DEFAULT FALLBACK"
		}
		fmt.Printf("%2d. %s (%s) - %s%s\n", i+1, v.Name, v.Language, quality, marker)
	}

	voice := cfg.Voice
	if voice == "" {
		voice = "en-US-AriaNeural"
	}
	fmt.Printf("\nPrimary voice: %s (requires internet)\n", voice)
}
