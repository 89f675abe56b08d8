package stt

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/pion/opus"
	"github.com/pion/opus/pkg/oggreader"
	"github.com/zeozeozeo/gomplerate"

	. "github.com/mar0der/ClaudeCodeTools/internal/logging"
)

const (
	targetSampleRate = 16000 // Whisper.cpp requires 16kHz
	maxFrameSize     = 5760  // Max Opus frame size (120ms at 48kHz)
)

// ConvertToFloat32 converts an audio file to 16kHz mono float32 samples,
// the format required by whisper.cpp. WAV files (our own recordings) are
// decoded natively. OGG/Opus tries pure Go, then ffmpeg. Anything else
// needs ffmpeg.
func ConvertToFloat32(filePath string) ([]float32, error) {
	ext := strings.ToLower(filepath.Ext(filePath))

	if ext == ".wav" {
		return convertWav(filePath)
	}

	if ext == ".ogg" || ext == ".opus" || ext == ".oga" {
		if ffmpegAvailable() {
			L_debug("stt: using ffmpeg for OGG/Opus", "file", filePath)
			return convertWithFFmpeg(filePath)
		}
		samples, err := convertOggOpusPureGoSafe(filePath)
		if err != nil {
			return nil, fmt.Errorf("OGG decoding failed (%v) - install ffmpeg for reliable audio conversion", err)
		}
		return samples, nil
	}

	if ffmpegAvailable() {
		L_debug("stt: using ffmpeg for non-WAV format", "file", filePath, "ext", ext)
		return convertWithFFmpeg(filePath)
	}

	return nil, fmt.Errorf("unsupported audio format %s (install ffmpeg for non-WAV files)", ext)
}

// convertWav decodes a WAV file natively and normalizes it to 16kHz mono.
func convertWav(filePath string) ([]float32, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open audio file: %w", err)
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}
	if buf == nil || buf.Format == nil {
		return nil, fmt.Errorf("wav file has no format chunk")
	}

	sampleRate := buf.Format.SampleRate
	channels := buf.Format.NumChannels
	depth := buf.SourceBitDepth
	if depth == 0 {
		depth = 16
	}
	L_debug("stt: wav decoded", "sampleRate", sampleRate, "channels", channels, "bitDepth", depth, "frames", len(buf.Data)/max(channels, 1))

	// FullPCMBuffer yields ints at the source bit depth; rescale to 16-bit.
	// 8-bit WAV is unsigned, everything wider is signed.
	samples := make([]int16, len(buf.Data))
	switch {
	case depth == 16:
		for i, v := range buf.Data {
			samples[i] = int16(v) // #nosec G115 - 16-bit PCM fits
		}
	case depth == 8:
		for i, v := range buf.Data {
			samples[i] = int16((v - 128) << 8) // #nosec G115 - rescaled to 16-bit range
		}
	case depth > 16:
		shift := uint(depth - 16)
		for i, v := range buf.Data {
			samples[i] = int16(v >> shift) // #nosec G115 - rescaled to 16-bit range
		}
	default:
		shift := uint(16 - depth)
		for i, v := range buf.Data {
			samples[i] = int16(v << shift) // #nosec G115 - rescaled to 16-bit range
		}
	}

	if channels > 1 {
		samples = toMono(samples, channels)
	}
	if sampleRate != targetSampleRate {
		L_debug("stt: resampling", "from", sampleRate, "to", targetSampleRate)
		samples = resampleInt16(samples, sampleRate, targetSampleRate)
	}

	return int16ToFloat32(samples), nil
}

// convertOggOpusPureGoSafe wraps convertOggOpusPureGo with panic recovery.
// The pion/opus library has bugs that can cause panics on some files.
func convertOggOpusPureGoSafe(filePath string) (samples []float32, err error) {
	defer func() {
		if r := recover(); r != nil {
			L_warn("stt: pure Go decoder panicked, recovered", "panic", r)
			err = fmt.Errorf("decoder panic: %v", r)
			samples = nil
		}
	}()
	return convertOggOpusPureGo(filePath)
}

// convertOggOpusPureGo decodes OGG/Opus to 16kHz mono float32 using pure Go.
func convertOggOpusPureGo(filePath string) ([]float32, error) {
	L_debug("stt: decoding OGG/Opus", "file", filePath)

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open audio file: %w", err)
	}
	defer file.Close()

	ogg, header, err := oggreader.NewWith(file)
	if err != nil {
		return nil, fmt.Errorf("parse OGG container: %w", err)
	}

	sampleRate := int(header.SampleRate)
	channels := int(header.Channels)
	L_debug("stt: OGG header", "sampleRate", sampleRate, "channels", channels)

	decoder := opus.NewDecoder()
	outBuf := make([]byte, maxFrameSize*channels*2) // *2 for 16-bit samples

	var allSamples []int16
	for {
		segments, _, err := ogg.ParseNextPage()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse OGG page: %w", err)
		}

		// Each segment is an Opus packet
		for _, segment := range segments {
			if len(segment) == 0 {
				continue
			}

			_, isStereo, err := decoder.Decode(segment, outBuf)
			if err != nil {
				L_debug("stt: skipping packet", "error", err, "len", len(segment))
				continue
			}

			actualChannels := 1
			if isStereo {
				actualChannels = 2
			}

			samples := bytesToInt16(outBuf, actualChannels)
			allSamples = append(allSamples, samples...)
		}
	}

	if len(allSamples) == 0 {
		return nil, fmt.Errorf("no audio samples decoded from %s", filePath)
	}

	if channels > 1 {
		allSamples = toMono(allSamples, channels)
	}
	if sampleRate != targetSampleRate {
		L_debug("stt: resampling", "from", sampleRate, "to", targetSampleRate)
		allSamples = resampleInt16(allSamples, sampleRate, targetSampleRate)
	}

	result := int16ToFloat32(allSamples)
	L_debug("stt: conversion complete", "samples", len(result), "duration_sec", float64(len(result))/float64(targetSampleRate))

	return result, nil
}

// bytesToInt16 converts a byte buffer to int16 samples (little-endian),
// stopping at trailing zeros (unused buffer space).
func bytesToInt16(buf []byte, channels int) []int16 {
	numSamples := len(buf) / 2
	samples := make([]int16, 0, numSamples)

	for i := 0; i < len(buf)-1; i += 2 {
		sample := int16(binary.LittleEndian.Uint16(buf[i : i+2])) // #nosec G115 - audio sample reinterpret
		if sample == 0 && i > 0 {
			allZero := true
			for j := i; j < len(buf)-1; j += 2 {
				if binary.LittleEndian.Uint16(buf[j:j+2]) != 0 {
					allZero = false
					break
				}
			}
			if allZero {
				break
			}
		}
		samples = append(samples, sample)
	}

	return samples
}

// toMono converts multi-channel audio to mono by averaging channels.
func toMono(samples []int16, channels int) []int16 {
	if channels == 1 {
		return samples
	}

	mono := make([]int16, len(samples)/channels)
	for i := 0; i < len(mono); i++ {
		var sum int32
		for ch := 0; ch < channels; ch++ {
			sum += int32(samples[i*channels+ch])
		}
		mono[i] = int16(sum / int32(channels)) // #nosec G115 - channel count is small
	}
	return mono
}

// resampleInt16 converts audio from one sample rate to another using gomplerate.
func resampleInt16(samples []int16, fromRate, toRate int) []int16 {
	if fromRate == toRate {
		return samples
	}

	resampler, err := gomplerate.NewResampler(1, fromRate, toRate)
	if err != nil {
		L_warn("stt: resampler creation failed, skipping resample", "error", err)
		return samples
	}

	return resampler.ResampleInt16(samples)
}

// int16ToFloat32 converts int16 samples to float32 normalized to [-1, 1].
func int16ToFloat32(samples []int16) []float32 {
	result := make([]float32, len(samples))
	for i, s := range samples {
		result[i] = float32(s) / 32768.0
	}
	return result
}

// ffmpegAvailable checks if ffmpeg is installed.
func ffmpegAvailable() bool {
	_, err := exec.LookPath("ffmpeg")
	return err == nil
}

// convertWithFFmpeg uses ffmpeg to convert audio to 16kHz mono PCM.
func convertWithFFmpeg(inputPath string) ([]float32, error) {
	tmpFile, err := os.CreateTemp("", "stt-*.raw")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	tmpFile.Close()
	defer os.Remove(tmpPath)

	// Convert to raw 16-bit PCM
	// #nosec G204 - inputPath comes from our own file handling
	cmd := exec.Command("ffmpeg",
		"-i", inputPath,
		"-ar", fmt.Sprintf("%d", targetSampleRate),
		"-ac", "1",
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-y",
		tmpPath,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		L_debug("stt: ffmpeg output", "output", string(output))
		return nil, fmt.Errorf("ffmpeg conversion failed: %w", err)
	}

	rawData, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("read converted audio: %w", err)
	}

	samples := make([]int16, len(rawData)/2)
	for i := 0; i < len(samples); i++ {
		samples[i] = int16(rawData[i*2]) | int16(rawData[i*2+1])<<8
	}

	return int16ToFloat32(samples), nil
}
