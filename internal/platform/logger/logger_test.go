package logger

import (
	"strings"
	"testing"
)

func TestSanitizeKVsRedactsSecrets(t *testing.T) {
	l := Nop()
	l.redact = redaction{enabled: true, salt: "pepper"}

	out := l.sanitizeKVs([]interface{}{
		"password", "hunter22",
		"refresh_token", "abc",
		"username", "alice",
		"path", "/api/comparisons",
		"dangling",
	})
	if len(out) != 9 {
		t.Fatalf("unexpected length: %d", len(out))
	}
	if out[1] != "[REDACTED]" || out[3] != "[REDACTED]" {
		t.Fatalf("secrets not redacted: %v", out)
	}
	hashed, ok := out[5].(string)
	if !ok || !strings.HasPrefix(hashed, "hash:") || strings.Contains(hashed, "alice") {
		t.Fatalf("username not hashed: %v", out[5])
	}
	if out[7] != "/api/comparisons" {
		t.Fatalf("plain value changed: %v", out[7])
	}
	if out[8] != "dangling" {
		t.Fatalf("dangling key dropped: %v", out)
	}
}

func TestSanitizeKVsDisabled(t *testing.T) {
	l := Nop()
	in := []interface{}{"password", "hunter22"}
	out := l.sanitizeKVs(in)
	if out[1] != "hunter22" {
		t.Fatalf("expected passthrough when redaction is off, got %v", out)
	}
}

func TestLooksLikeJWT(t *testing.T) {
	if !looksLikeJWT("eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiJhbGljZSJ9.sig") {
		t.Fatalf("expected jwt to be detected")
	}
	if looksLikeJWT("a.b.c") {
		t.Fatalf("short dotted value is not a jwt")
	}
}
