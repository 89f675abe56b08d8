package tts

import (
	"fmt"
	"os/exec"
	"runtime"

	. "github.com/mar0der/ClaudeCodeTools/internal/logging"
)

// Player plays an audio file through an external player process.
type Player interface {
	Play(path string) error
}

// execPlayer shells out to the platform's audio player: afplay on macOS,
// mpg123 on Linux. Other platforms silently play nothing.
type execPlayer struct{}

// NewPlayer returns the platform player.
func NewPlayer() Player {
	return execPlayer{}
}

func (execPlayer) Play(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("afplay", path)
	case "linux":
		cmd = exec.Command("mpg123", "-q", path)
	default:
		L_debug("tts: no audio player for platform", "goos", runtime.GOOS)
		return nil
	}

	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("play audio: %w: %s", err, out)
	}
	return nil
}
