package nonce

import (
	"testing"
	"time"
)

func TestIssueVerify(t *testing.T) {
	s := New()
	token, err := s.Issue("github-updater-check")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if len(token) != 32 {
		t.Errorf("token length = %d, want 32", len(token))
	}
	if !s.Verify(token, "github-updater-check") {
		t.Error("fresh token rejected")
	}
	if s.Verify(token, "github-updater-check") {
		t.Error("token accepted twice")
	}
}

func TestVerifyWrongAction(t *testing.T) {
	s := New()
	token, _ := s.Issue("github-updater-check")
	if s.Verify(token, "delete-plugin") {
		t.Error("token accepted for another action")
	}
	if s.Verify(token, "github-updater-check") {
		t.Error("token still valid after a failed verify")
	}
}

func TestVerifyUnknown(t *testing.T) {
	s := New()
	if s.Verify("0123456789abcdef", "github-updater-check") {
		t.Error("unknown token accepted")
	}
}

func TestExpiry(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	s := New(WithTTL(time.Hour), WithClock(func() time.Time { return now }))

	token, _ := s.Issue("a")
	now = now.Add(2 * time.Hour)
	if s.Verify(token, "a") {
		t.Error("expired token accepted")
	}
}

func TestPruneOnIssue(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	s := New(WithTTL(time.Minute), WithClock(func() time.Time { return now }))

	_, _ = s.Issue("a")
	_, _ = s.Issue("a")
	now = now.Add(time.Hour)
	_, _ = s.Issue("a")

	if got := s.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}
}

func TestUniqueTokens(t *testing.T) {
	s := New()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := s.Issue("a")
		if err != nil {
			t.Fatal(err)
		}
		if seen[token] {
			t.Fatalf("duplicate token %q", token)
		}
		seen[token] = true
	}
}
