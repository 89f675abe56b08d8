package tts

import (
	"bytes"
	"encoding/binary"
	"encoding/xml"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	. "github.com/mar0der/ClaudeCodeTools/internal/logging"
)

// Edge read-aloud websocket endpoint. The token is the public one the
// Edge browser itself presents.
const (
	edgeTrustedToken = "6A5AA1D4EAFF4E9FB37E23D68491D6F4"
	edgeWSURL        = "wss://" + edgeHost + "/consumer/speech/synthesize/readaloud/edge/v1"
	edgeOrigin       = "chrome-extension://jdiccldimpdaibmpdkjnbmckianbfold"
	edgeOutputFormat = "audio-24khz-48kbitrate-mono-mp3"
)

// EdgeConfig holds configuration for the Edge neural voice engine.
type EdgeConfig struct {
	Voice   string        // Neural voice name, default "en-US-AriaNeural"
	Timeout time.Duration // Whole synthesis budget, 0 = no timeout
}

// EdgeEngine synthesizes speech with Microsoft's Edge neural voices over
// the read-aloud websocket, then plays the resulting MP3 through the
// platform player.
type EdgeEngine struct {
	config EdgeConfig
	player Player
}

// NewEdgeEngine creates the cloud TTS engine.
func NewEdgeEngine(cfg EdgeConfig, player Player) *EdgeEngine {
	if cfg.Voice == "" {
		cfg.Voice = "en-US-AriaNeural"
	}
	return &EdgeEngine{config: cfg, player: player}
}

// Speak synthesizes message to a temp MP3, plays it, and removes the file.
func (e *EdgeEngine) Speak(message string) error {
	audio, err := e.Synthesize(message)
	if err != nil {
		return fmt.Errorf("edge synthesis: %w", err)
	}

	tmp, err := os.CreateTemp("", "claude_tts_*.mp3")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(audio); err != nil {
		tmp.Close()
		return fmt.Errorf("write audio file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close audio file: %w", err)
	}

	L_debug("tts: playing edge audio", "bytes", len(audio))
	if err := e.player.Play(tmpPath); err != nil {
		return err
	}
	return nil
}

// Synthesize runs the read-aloud protocol for one message and returns the
// MP3 bytes: send a speech.config frame and an SSML frame, then collect
// binary audio frames until the service signals turn.end.
func (e *EdgeEngine) Synthesize(message string) ([]byte, error) {
	connID := strings.ReplaceAll(uuid.NewString(), "-", "")
	reqID := strings.ReplaceAll(uuid.NewString(), "-", "")

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	header := http.Header{}
	header.Set("Origin", edgeOrigin)

	url := fmt.Sprintf("%s?TrustedClientToken=%s&ConnectionId=%s", edgeWSURL, edgeTrustedToken, connID)
	conn, _, err := dialer.Dial(url, header)
	if err != nil {
		return nil, fmt.Errorf("dial speech service: %w", err)
	}
	defer conn.Close()

	deadline := time.Time{}
	if e.config.Timeout > 0 {
		deadline = time.Now().Add(e.config.Timeout)
	}
	conn.SetReadDeadline(deadline)
	conn.SetWriteDeadline(deadline)

	ts := time.Now().UTC().Format("Mon Jan 02 2006 15:04:05 GMT+0000 (Coordinated Universal Time)")

	speechConfig := fmt.Sprintf(
		"X-Timestamp:%s\r\nContent-Type:application/json; charset=utf-8\r\nPath:speech.config\r\n\r\n"+
			`{"context":{"synthesis":{"audio":{"metadataoptions":{"sentenceBoundaryEnabled":"false","wordBoundaryEnabled":"false"},"outputFormat":"%s"}}}}`,
		ts, edgeOutputFormat)
	if err := conn.WriteMessage(websocket.TextMessage, []byte(speechConfig)); err != nil {
		return nil, fmt.Errorf("send speech config: %w", err)
	}

	ssml := fmt.Sprintf(
		"X-RequestId:%s\r\nContent-Type:application/ssml+xml\r\nX-Timestamp:%s\r\nPath:ssml\r\n\r\n"+
			"<speak version='1.0' xmlns='http://www.w3.org/2001/10/synthesis' xml:lang='en-US'>"+
			"<voice name='%s'>%s</voice></speak>",
		reqID, ts, e.config.Voice, xmlEscape(message))
	if err := conn.WriteMessage(websocket.TextMessage, []byte(ssml)); err != nil {
		return nil, fmt.Errorf("send ssml: %w", err)
	}

	L_debug("tts: edge request sent", "voice", e.config.Voice, "chars", len(message))

	var audio bytes.Buffer
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return nil, fmt.Errorf("read speech frame: %w", err)
		}

		switch msgType {
		case websocket.TextMessage:
			if strings.Contains(string(data), "Path:turn.end") {
				if audio.Len() == 0 {
					return nil, fmt.Errorf("service returned no audio")
				}
				return audio.Bytes(), nil
			}

		case websocket.BinaryMessage:
			frameHeader, payload, ok := splitBinaryFrame(data)
			if !ok {
				continue
			}
			if strings.Contains(frameHeader, "Path:audio") {
				audio.Write(payload)
			}
		}
	}
}

// splitBinaryFrame splits a service binary frame into its text headers and
// payload. Layout: 2-byte big-endian header length, headers, payload.
func splitBinaryFrame(data []byte) (header string, payload []byte, ok bool) {
	if len(data) < 2 {
		return "", nil, false
	}
	headerLen := int(binary.BigEndian.Uint16(data[:2]))
	if len(data) < 2+headerLen {
		return "", nil, false
	}
	return string(data[2 : 2+headerLen]), data[2+headerLen:], true
}

// Name returns the engine name.
func (e *EdgeEngine) Name() string {
	return "edge"
}

// xmlEscape escapes message text for embedding in SSML.
func xmlEscape(s string) string {
	var buf bytes.Buffer
	if err := xml.EscapeText(&buf, []byte(s)); err != nil {
		return s
	}
	return buf.String()
}
