package services

import (
	"context"
	"testing"
	"time"
)

func TestMemoryDenylistExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	d := &memoryDenylist{entries: map[string]time.Time{}, now: func() time.Time { return now }}
	ctx := context.Background()

	if err := d.Add(ctx, "a", time.Minute); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := d.Add(ctx, "expired", 0); err != nil {
		t.Fatalf("Add (expired): %v", err)
	}

	if ok, _ := d.Contains(ctx, "a"); !ok {
		t.Fatalf("expected a to be revoked")
	}
	if ok, _ := d.Contains(ctx, "expired"); ok {
		t.Fatalf("expired token should not be stored")
	}

	now = now.Add(2 * time.Minute)
	if ok, _ := d.Contains(ctx, "a"); ok {
		t.Fatalf("entry should lapse after its ttl")
	}
	if len(d.entries) != 0 {
		t.Fatalf("lapsed entry not dropped: %v", d.entries)
	}
}
