package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

func TestFingerprintIsStableAndNormalized(t *testing.T) {
	a := Fingerprint("Someone@Example.com ")
	b := Fingerprint("someone@example.com")
	if a != b {
		t.Fatalf("expected equal fingerprints, got %s and %s", a, b)
	}
	if len(a) != 16 {
		t.Fatalf("expected 16 hex chars, got %d", len(a))
	}
	if Fingerprint("other@example.com") == a {
		t.Fatal("expected different fingerprint for a different address")
	}
	if Fingerprint("   ") != "" {
		t.Fatal("expected empty fingerprint for blank input")
	}
}

func TestNewWithWriterHonoursLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "warn")
	logger.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered, got %q", buf.String())
	}

	logger.Warn("kept", Email("a@b.co"))
	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if line["msg"] != "kept" {
		t.Fatalf("unexpected msg %v", line["msg"])
	}
	if line["email_fp"] != Fingerprint("a@b.co") {
		t.Fatalf("unexpected email_fp %v", line["email_fp"])
	}
}

func TestNewWithWriterFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "chatty")
	logger.Debug("dropped")
	logger.Info("kept")
	if !bytes.Contains(buf.Bytes(), []byte("kept")) || bytes.Contains(buf.Bytes(), []byte("dropped")) {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestContextRequestIDIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "info")
	ctx := WithRequestID(context.Background(), "req-42")

	logger.InfoContext(ctx, "stored")
	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if line["request_id"] != "req-42" {
		t.Fatalf("expected request_id req-42, got %v", line["request_id"])
	}
	if RequestID(context.Background()) != "" {
		t.Fatal("expected empty request id on bare context")
	}
}
