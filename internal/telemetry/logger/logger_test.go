package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func newCaptureLogger(t *testing.T, level string) (Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l, err := New(Config{Level: level, Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return l, &buf
}

func TestLogOutputIsJSON(t *testing.T) {
	l, buf := newCaptureLogger(t, "info")
	l.Info("minted", "token_id", 7, "owner", "0xabc")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if entry["msg"] != "minted" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["token_id"] != float64(7) {
		t.Errorf("token_id = %v", entry["token_id"])
	}
}

func TestLevelFiltering(t *testing.T) {
	l, buf := newCaptureLogger(t, "warn")
	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("sub-level entries leaked: %s", out)
	}
	if !strings.Contains(out, "visible") {
		t.Errorf("warn entry missing: %s", out)
	}
}

func TestSetLevelIsDynamic(t *testing.T) {
	l, buf := newCaptureLogger(t, "info")
	defer SetLevel("info")

	l.Debug("before")
	SetLevel("debug")
	l.Debug("after")

	out := buf.String()
	if strings.Contains(out, "before") {
		t.Error("debug entry logged before level change")
	}
	if !strings.Contains(out, "after") {
		t.Error("debug entry missing after level change")
	}
	if GetLevel() != "debug" {
		t.Errorf("GetLevel() = %s", GetLevel())
	}
}

func TestSensitiveFieldsAreRedacted(t *testing.T) {
	l, buf := newCaptureLogger(t, "info")
	l.Info("snapshot sealed", "passphrase", "hunter2", "path", "/tmp/snap")

	out := buf.String()
	if strings.Contains(out, "hunter2") {
		t.Errorf("passphrase leaked: %s", out)
	}
	if !strings.Contains(out, redactedValue) {
		t.Errorf("redaction placeholder missing: %s", out)
	}
	if !strings.Contains(out, "/tmp/snap") {
		t.Errorf("non-sensitive field mangled: %s", out)
	}
}

func TestWithAttachesFields(t *testing.T) {
	l, buf := newCaptureLogger(t, "info")
	l.With("component", "ledger").Info("paused")

	if !strings.Contains(buf.String(), `"component":"ledger"`) {
		t.Errorf("With field missing: %s", buf.String())
	}
}

func TestIsSensitiveKey(t *testing.T) {
	for key, want := range map[string]bool{
		"passphrase":          true,
		"snapshot_passphrase": true,
		"admin_password":      true,
		"Authorization":       true,
		"owner":               false,
		"token_id":            false,
	} {
		if got := IsSensitiveKey(key); got != want {
			t.Errorf("IsSensitiveKey(%q) = %v, want %v", key, got, want)
		}
	}
}
