package telemetry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func TestDisabledByDefault(t *testing.T) {
	c := New(Config{})
	defer c.Close()
	if c.Enabled() {
		t.Fatal("telemetry enabled without opt-in")
	}
	// must be a no-op, not a panic or a blocked channel
	c.Event("round_finished", map[string]any{"n": 1})
}

func TestEventPosted(t *testing.T) {
	var mu sync.Mutex
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		_ = json.NewDecoder(r.Body).Decode(&payload)
		mu.Lock()
		got = payload
		mu.Unlock()
	}))
	defer srv.Close()

	c := New(Config{OptIn: true, EventsURL: srv.URL, Timeout: time.Second})
	defer c.Close()
	c.Event("app_start", map[string]any{"degraded": false})
	c.Flush(context.Background())

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		done := got != nil
		mu.Unlock()
		if done || time.Now().After(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	mu.Lock()
	defer mu.Unlock()
	if got == nil {
		t.Fatal("event never arrived")
	}
	if got["name"] != "app_start" || got["version"] == "" {
		t.Fatalf("unexpected payload: %v", got)
	}
}

func TestCrashUploadRequiresOptIn(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { hits++ }))
	defer srv.Close()

	c := New(Config{OptIn: false, CrashURL: srv.URL, Timeout: time.Second})
	defer c.Close()
	c.UploadCrash([]byte("report"))
	time.Sleep(100 * time.Millisecond)
	if hits != 0 {
		t.Fatalf("crash uploaded without opt-in (%d hits)", hits)
	}
}
