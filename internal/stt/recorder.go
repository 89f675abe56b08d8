package stt

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/gordonklaus/portaudio"

	. "github.com/mar0der/ClaudeCodeTools/internal/logging"
)

// Audio capture settings: 16kHz mono 16-bit, 1024-sample chunks.
const (
	sampleRate = 16000
	chunkSize  = 1024
	channels   = 1
)

// ChunksForDuration returns how many full chunks a timed recording of the
// given length captures.
func ChunksForDuration(seconds int) int {
	return int(float64(sampleRate) / float64(chunkSize) * float64(seconds))
}

// Session is one in-progress recording. The frame buffer is written only
// by the capture goroutine; callers must Stop (which joins it) before the
// frames are read.
type Session struct {
	frames [][]int16
	stop   chan struct{}
	done   chan struct{}
	err    error
}

// StartSession opens the default input device and starts capturing in a
// background goroutine until Stop is called.
func StartSession() (*Session, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize audio: %w", err)
	}

	in := make([]int16, chunkSize)
	stream, err := portaudio.OpenDefaultStream(channels, 0, float64(sampleRate), chunkSize, in)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("open input stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("start input stream: %w", err)
	}

	s := &Session{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go s.capture(stream, in)
	return s, nil
}

// capture drains the stream one chunk at a time until the stop channel
// closes. Stop latency is bounded by one chunk (64ms at 16kHz).
func (s *Session) capture(stream *portaudio.Stream, in []int16) {
	defer close(s.done)
	defer portaudio.Terminate()
	defer stream.Close()

	for {
		select {
		case <-s.stop:
			if err := stream.Stop(); err != nil {
				L_warn("stt: failed to stop input stream", "error", err)
			}
			return
		default:
		}

		if err := stream.Read(); err != nil {
			s.err = fmt.Errorf("read input stream: %w", err)
			return
		}
		chunk := make([]int16, len(in))
		copy(chunk, in)
		s.frames = append(s.frames, chunk)
	}
}

// Stop signals the capture goroutine, waits for it to finish draining,
// and flushes the accumulated frames to a WAV file at outputPath.
func (s *Session) Stop(outputPath string) (string, error) {
	close(s.stop)
	<-s.done

	if s.err != nil {
		return "", s.err
	}
	if len(s.frames) == 0 {
		return "", fmt.Errorf("no audio recorded")
	}

	if err := WriteWAV(outputPath, s.frames); err != nil {
		return "", err
	}
	s.frames = nil
	return outputPath, nil
}

// Record captures exactly ChunksForDuration(seconds) chunks from the
// default input device and writes them to a WAV file. When outputPath is
// empty a temp file is used. The caller owns the returned file.
func Record(seconds int, outputPath string) (string, error) {
	if outputPath == "" {
		tmp, err := os.CreateTemp("", "recording-*.wav")
		if err != nil {
			return "", fmt.Errorf("create temp file: %w", err)
		}
		outputPath = tmp.Name()
		tmp.Close()
	}

	if err := portaudio.Initialize(); err != nil {
		return "", fmt.Errorf("initialize audio: %w", err)
	}
	defer portaudio.Terminate()

	in := make([]int16, chunkSize)
	stream, err := portaudio.OpenDefaultStream(channels, 0, float64(sampleRate), chunkSize, in)
	if err != nil {
		return "", fmt.Errorf("open input stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return "", fmt.Errorf("start input stream: %w", err)
	}

	n := ChunksForDuration(seconds)
	L_info("stt: recording", "seconds", seconds, "chunks", n)

	frames := make([][]int16, 0, n)
	for i := 0; i < n; i++ {
		if err := stream.Read(); err != nil {
			return "", fmt.Errorf("read input stream: %w", err)
		}
		chunk := make([]int16, len(in))
		copy(chunk, in)
		frames = append(frames, chunk)
	}

	if err := stream.Stop(); err != nil {
		L_warn("stt: failed to stop input stream", "error", err)
	}

	L_info("stt: recording finished", "chunks", len(frames))

	if err := WriteWAV(outputPath, frames); err != nil {
		return "", err
	}
	return outputPath, nil
}

// WriteWAV flushes captured frames to a 16-bit mono 16kHz WAV file.
// Zero frames still produce a valid, empty container.
func WriteWAV(path string, frames [][]int16) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav file: %w", err)
	}

	enc := wav.NewEncoder(f, sampleRate, 16, channels, 1)

	total := 0
	for _, chunk := range frames {
		total += len(chunk)
	}
	data := make([]int, 0, total)
	for _, chunk := range frames {
		for _, s := range chunk {
			data = append(data, int(s))
		}
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		enc.Close()
		f.Close()
		return fmt.Errorf("write wav data: %w", err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("finalize wav: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close wav file: %w", err)
	}
	return nil
}
