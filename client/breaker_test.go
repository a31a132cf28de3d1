package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestBreaker_TripsOnUpstreamFailures(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	breaker := NewBreaker(2)
	c := NewClient(WithCircuitBreaker(breaker))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := c.GetBody(ctx, server.URL); err == nil {
			t.Fatal("expected error")
		}
	}

	if !breaker.Tripped(server.URL) {
		t.Fatal("breaker should be open after 2 failures")
	}

	_, err := c.GetBody(ctx, server.URL)
	if !errors.Is(err, ErrUpstreamDown) {
		t.Errorf("GetBody = %v, want ErrUpstreamDown", err)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2 (open breaker must not reach upstream)", attempts)
	}
}

func TestBreaker_NotFoundDoesNotTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	breaker := NewBreaker(1)
	c := NewClient(WithCircuitBreaker(breaker))

	for i := 0; i < 3; i++ {
		_, _ = c.GetBody(context.Background(), server.URL)
	}

	if breaker.Tripped(server.URL) {
		t.Error("404 responses should not trip the breaker")
	}
}

func TestBreaker_State(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	breaker := NewBreaker(0)
	c := NewClient(WithCircuitBreaker(breaker))
	if _, err := c.GetBody(context.Background(), server.URL); err != nil {
		t.Fatalf("GetBody failed: %v", err)
	}

	states := breaker.State()
	host := extractHost(server.URL)
	if states[host] != "closed" {
		t.Errorf("state[%s] = %q, want %q", host, states[host], "closed")
	}
}

func TestExtractHost(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://api.github.com/repos/owner/repo/releases/latest", "api.github.com"},
		{"http://127.0.0.1:8080/releases/latest", "127.0.0.1:8080"},
		{"not a url", "not a url"},
	}

	for _, tt := range tests {
		if got := extractHost(tt.url); got != tt.want {
			t.Errorf("extractHost(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
