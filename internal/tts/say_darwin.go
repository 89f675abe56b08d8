//go:build darwin

package tts

import (
	"bufio"
	"bytes"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	. "github.com/mar0der/ClaudeCodeTools/internal/logging"
)

// nativeSynth drives the macOS `say` command.
type nativeSynth struct{}

// NewNativeSynthesizer returns the platform synthesizer.
func NewNativeSynthesizer() Synthesizer {
	return nativeSynth{}
}

// sayVoiceLine matches one line of `say -v ?` output:
// "Daniel              en_GB    # Hello, my name is Daniel."
var sayVoiceLine = regexp.MustCompile(`^(.+?)\s{2,}([a-zA-Z]{2,3}[_-][A-Za-z0-9-]+)\s*#`)

// Voices lists the installed voices whose language starts with "en",
// in the order `say` reports them.
func (nativeSynth) Voices() ([]Voice, error) {
	out, err := exec.Command("say", "-v", "?").Output()
	if err != nil {
		return nil, fmt.Errorf("list voices: %w", err)
	}

	var voices []Voice
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		m := sayVoiceLine.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		lang := strings.ReplaceAll(m[2], "_", "-")
		if !strings.HasPrefix(lang, "en") {
			continue
		}

		quality := QualityStandard
		if strings.Contains(name, "(Premium)") || strings.Contains(name, "(Enhanced)") {
			quality = QualityPremium
		}

		voices = append(voices, Voice{
			Name:       name,
			Language:   lang,
			Identifier: name, // say selects voices by name
			Quality:    quality,
		})
	}

	return voices, nil
}

// Speak runs `say` for one utterance and waits for the process to finish.
// Completion is the process exit, delivered over a channel; there is no
// timeout on local synthesis.
func (nativeSynth) Speak(utt Utterance, voice Voice) error {
	// say speaks in words per minute; rate 0.5 maps to the default 175.
	wpm := int(utt.Rate * 350)
	vol := fmt.Sprintf("%.2f", utt.Volume)

	if utt.Pitch != 1.0 {
		L_debug("tts: say has no pitch control, ignoring", "pitch", utt.Pitch)
	}

	// #nosec G204 - voice names come from `say -v ?` itself
	cmd := exec.Command("say", "-v", voice.Identifier, "-r", fmt.Sprintf("%d", wpm), "--volume", vol, utt.Message)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start say: %w", err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	if err := <-done; err != nil {
		return fmt.Errorf("say failed: %w", err)
	}
	return nil
}
