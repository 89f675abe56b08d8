//go:build linux

package tts

import (
	"bufio"
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// nativeSynth drives espeak-ng.
type nativeSynth struct{}

// NewNativeSynthesizer returns the platform synthesizer.
func NewNativeSynthesizer() Synthesizer {
	return nativeSynth{}
}

// Voices lists the installed English espeak-ng voices in the order the
// tool reports them. Output columns:
// "Pty Language Age/Gender VoiceName File Other Languages"
func (nativeSynth) Voices() ([]Voice, error) {
	out, err := exec.Command("espeak-ng", "--voices=en").Output()
	if err != nil {
		return nil, fmt.Errorf("list voices: %w", err)
	}

	var voices []Voice
	scanner := bufio.NewScanner(bytes.NewReader(out))
	first := true
	for scanner.Scan() {
		if first {
			first = false // header row
			continue
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) < 5 {
			continue
		}
		lang := fields[1]
		if !strings.HasPrefix(lang, "en") {
			continue
		}
		voices = append(voices, Voice{
			Name:       fields[3],
			Language:   lang,
			Identifier: fields[4], // voice file path, accepted by -v
			Quality:    QualityStandard,
		})
	}

	return voices, nil
}

// Speak runs espeak-ng for one utterance and waits for the process to
// finish. Completion is the process exit, delivered over a channel; there
// is no timeout on local synthesis.
func (nativeSynth) Speak(utt Utterance, voice Voice) error {
	// espeak-ng speaks in words per minute; rate 0.5 maps to 175.
	wpm := int(utt.Rate * 350)
	// Amplitude 0-200 with 100 neutral, pitch 0-99 with 50 neutral.
	amp := int(utt.Volume * 100)
	pitch := int(utt.Pitch * 50)

	// #nosec G204 - voice identifiers come from espeak-ng itself
	cmd := exec.Command("espeak-ng",
		"-v", voice.Identifier,
		"-s", fmt.Sprintf("%d", wpm),
		"-a", fmt.Sprintf("%d", amp),
		"-p", fmt.Sprintf("%d", pitch),
		utt.Message,
	)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start espeak-ng: %w", err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	if err := <-done; err != nil {
		return fmt.Errorf("espeak-ng failed: %w", err)
	}
	return nil
}
