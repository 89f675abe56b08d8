package paths

import (
	"path/filepath"
	"testing"
)

func TestExpandTilde(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandTilde("~/stt/whisper")
	if err != nil {
		t.Fatalf("ExpandTilde failed: %v", err)
	}
	want := filepath.Join(home, "stt", "whisper")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	// Bare tilde expands to home itself
	got, err = ExpandTilde("~")
	if err != nil {
		t.Fatalf("ExpandTilde failed: %v", err)
	}
	if got != home {
		t.Errorf("got %q, want %q", got, home)
	}

	// Paths without a tilde pass through
	got, err = ExpandTilde("/tmp/x")
	if err != nil {
		t.Fatalf("ExpandTilde failed: %v", err)
	}
	if got != "/tmp/x" {
		t.Errorf("got %q, want %q", got, "/tmp/x")
	}
}

func TestBaseDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := BaseDir()
	if err != nil {
		t.Fatalf("BaseDir failed: %v", err)
	}
	if got != filepath.Join(home, ".claudetools") {
		t.Errorf("got %q", got)
	}
}
