package logger

import (
	"strings"
	"testing"
)

func TestSanitizeKVsRedactsAndHashes(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"authorization", "Bearer abc",
		"phone_number", "+15550100",
		"user_id", "5a4c7b1e-8d1f-4c49-9c55-4bda3cfa5a10",
		"scan_id", "s-1",
	})
	if len(out) != 8 {
		t.Fatalf("unexpected kv length: %d", len(out))
	}
	if out[1] != "[REDACTED]" {
		t.Fatalf("authorization not redacted: %v", out[1])
	}
	if out[3] != "[REDACTED]" {
		t.Fatalf("phone not redacted: %v", out[3])
	}
	hashed, ok := out[5].(string)
	if !ok || !strings.HasPrefix(hashed, "hash:") || len(hashed) != len("hash:")+12 {
		t.Fatalf("user_id not hashed: %v", out[5])
	}
	if out[7] != "s-1" {
		t.Fatalf("scan_id should pass through, got %v", out[7])
	}
}

func TestSanitizeKVsKeepsDanglingKey(t *testing.T) {
	out := sanitizeKVs([]interface{}{"status", 200, "orphan"})
	if len(out) != 3 || out[2] != "orphan" {
		t.Fatalf("dangling key lost: %+v", out)
	}
}

func TestNewTestModeIsQuiet(t *testing.T) {
	log, err := New("test")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.With("service", "x").Info("hello", "k", "v")
	log.Sync()
}
