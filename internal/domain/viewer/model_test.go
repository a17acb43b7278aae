package viewer

import (
	"testing"
	"time"
)

func TestActiveSince(t *testing.T) {
	now := time.Unix(10_000, 0)
	if got := ActiveSince(now, PresenceWindow); got != 10_000-600 {
		t.Fatalf("unexpected lower bound: %d", got)
	}
}

func TestViewerStaleAt(t *testing.T) {
	now := time.Unix(10_000, 0)
	fresh := Viewer{LastSeen: 10_000 - 300}
	old := Viewer{LastSeen: 10_000 - 301}

	if fresh.StaleAt(now, ClientStaleAfter) {
		t.Fatalf("expected viewer seen 300s ago to be fresh")
	}
	if !old.StaleAt(now, ClientStaleAfter) {
		t.Fatalf("expected viewer seen 301s ago to be stale")
	}
}

func TestViewerValidate(t *testing.T) {
	if err := (Viewer{GameID: "g1", UserID: "u1", LastSeen: 1}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (Viewer{GameID: "g1", LastSeen: 1}).Validate(); err == nil {
		t.Fatalf("expected error for missing user id")
	}
}
