package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New("chatty", ""); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestFileOutputRedactsKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "examprep.log")
	l, err := New("debug", path)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	l.Info("provider configured", "provider", "openai", "api_key", "sk-live-123", "input_tokens", 42)
	l.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "sk-live-123") {
		t.Errorf("api key leaked into log: %s", out)
	}
	if !strings.Contains(out, "[REDACTED]") {
		t.Errorf("expected redaction marker in %s", out)
	}
	if !strings.Contains(out, `"input_tokens":42`) {
		t.Errorf("token counts should not be redacted: %s", out)
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatal("OrNop(nil) returned nil")
	}
	l := Nop()
	if OrNop(l) != l {
		t.Error("OrNop should return the given logger")
	}
}
