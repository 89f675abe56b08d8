package tts

import (
	"encoding/binary"
	"testing"
)

func makeFrame(header string, payload []byte) []byte {
	frame := make([]byte, 2+len(header)+len(payload))
	binary.BigEndian.PutUint16(frame[:2], uint16(len(header)))
	copy(frame[2:], header)
	copy(frame[2+len(header):], payload)
	return frame
}

func TestSplitBinaryFrame(t *testing.T) {
	header := "X-RequestId:abc\r\nPath:audio\r\n"
	payload := []byte{0xff, 0xf3, 0x01, 0x02}

	got, gotPayload, ok := splitBinaryFrame(makeFrame(header, payload))
	if !ok {
		t.Fatal("expected frame to parse")
	}
	if got != header {
		t.Errorf("header: got %q, want %q", got, header)
	}
	if len(gotPayload) != len(payload) {
		t.Fatalf("payload length: got %d, want %d", len(gotPayload), len(payload))
	}
	for i := range payload {
		if gotPayload[i] != payload[i] {
			t.Errorf("payload byte %d: got %#x, want %#x", i, gotPayload[i], payload[i])
		}
	}
}

func TestSplitBinaryFrameTruncated(t *testing.T) {
	if _, _, ok := splitBinaryFrame([]byte{0x00}); ok {
		t.Error("one-byte frame should not parse")
	}

	// Header length claims more bytes than the frame holds
	frame := []byte{0x00, 0x10, 'P', 'a'}
	if _, _, ok := splitBinaryFrame(frame); ok {
		t.Error("truncated frame should not parse")
	}
}

func TestXMLEscape(t *testing.T) {
	got := xmlEscape(`done & "ready" <now>`)
	want := "done &amp; &#34;ready&#34; &lt;now&gt;"
	if got != want {
		t.Errorf("xmlEscape: got %q, want %q", got, want)
	}
}

func TestNewEdgeEngineDefaultVoice(t *testing.T) {
	e := NewEdgeEngine(EdgeConfig{}, NewPlayer())
	if e.config.Voice != "en-US-AriaNeural" {
		t.Errorf("default voice: got %q, want en-US-AriaNeural", e.config.Voice)
	}
}
