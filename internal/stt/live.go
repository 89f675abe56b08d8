package stt

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/eiannone/keyboard"

	. "github.com/mar0der/ClaudeCodeTools/internal/logging"
)

// Key is a classified keypress in the live loop.
type Key int

const (
	KeyOther Key = iota
	KeyToggle    // space: start or stop recording
	KeyQuit      // q: leave the loop
)

// keyReader yields classified keypresses. Wrapped in an interface so the
// loop can run against scripted input in tests.
type keyReader interface {
	ReadKey() (Key, error)
	Close() error
}

// recording is the part of Session the live loop needs.
type recording interface {
	Stop(outputPath string) (string, error)
}

// LiveSession is the interactive press-to-toggle transcription loop:
// space starts a recording, the next space stops it and transcribes, q
// exits. Each take is written to a temp file that is removed after use.
type LiveSession struct {
	transcribe func(string) (string, error)
	start      func() (recording, error)
	keys       keyReader
	tempDir    string
}

// NewLiveSession builds the interactive loop over the real keyboard,
// recorder and transcriber.
func NewLiveSession(t *Transcriber) (*LiveSession, error) {
	keys, err := openKeyboard()
	if err != nil {
		return nil, fmt.Errorf("open keyboard: %w", err)
	}
	return &LiveSession{
		transcribe: t.Transcribe,
		start: func() (recording, error) {
			return StartSession()
		},
		keys:    keys,
		tempDir: os.TempDir(),
	}, nil
}

// Run drives the loop until the quit key or a keyboard error.
func (l *LiveSession) Run() error {
	defer l.keys.Close()

	fmt.Println("Live transcription mode:")
	fmt.Println("- Press SPACE to start/stop recording")
	fmt.Println("- Press 'q' to quit")

	count := 0
	for {
		fmt.Println("\nPress SPACE to record, 'q' to quit...")

		key, err := l.keys.ReadKey()
		if err != nil {
			return fmt.Errorf("read key: %w", err)
		}

		switch key {
		case KeyQuit:
			L_info("stt: leaving live mode")
			return nil

		case KeyToggle:
			count++
			l.runCycle(count)
		}
	}
}

// runCycle records one take and transcribes it. All failures are logged,
// never fatal: the loop continues with the next keypress.
func (l *LiveSession) runCycle(count int) {
	sess, err := l.start()
	if err != nil {
		L_error("stt: cannot start recording", "error", err)
		return
	}

	fmt.Println("Recording... Press SPACE again to stop")

	// Only the toggle key stops an active recording.
	for {
		key, err := l.keys.ReadKey()
		if err != nil {
			L_error("stt: read key", "error", err)
			break
		}
		if key == KeyToggle {
			break
		}
	}

	path := filepath.Join(l.tempDir, fmt.Sprintf("recording_%d.wav", count))
	file, err := sess.Stop(path)
	if err != nil {
		L_error("stt: recording failed", "error", err)
		return
	}

	text, err := l.transcribe(file)
	if err != nil {
		L_error("stt: transcription failed", "error", err)
	} else {
		fmt.Printf("\nTranscription: %s\n", text)
	}

	// Best-effort cleanup
	os.Remove(file)
}

// keyboardReader adapts eiannone/keyboard to the keyReader interface.
type keyboardReader struct{}

func openKeyboard() (keyReader, error) {
	if err := keyboard.Open(); err != nil {
		return nil, err
	}
	return keyboardReader{}, nil
}

func (keyboardReader) ReadKey() (Key, error) {
	char, key, err := keyboard.GetKey()
	if err != nil {
		return KeyOther, err
	}
	switch {
	case key == keyboard.KeySpace:
		return KeyToggle, nil
	case char == 'q' || char == 'Q':
		return KeyQuit, nil
	default:
		return KeyOther, nil
	}
}

func (keyboardReader) Close() error {
	keyboard.Close()
	return nil
}
