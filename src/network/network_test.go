package network

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"macro-observer/src/logger"
	"macro-observer/src/models"
)

func newTestManager(retries int) *AsyncNetworkManager {
	cfg := &models.MConfig{}
	cfg.Network.RequestTimeout = 5
	cfg.Network.MaxRetries = retries
	cfg.Network.UserAgent = "macro-observer-test"
	nm := NewAsyncNetworkManager(cfg, logger.NewLogger(nil, "test"))
	nm.BaseDelay = time.Millisecond
	return nm
}

func TestGetSendsParamsAndUserAgent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("top_n") != "20" {
			t.Errorf("top_n = %q", r.URL.Query().Get("top_n"))
		}
		if r.UserAgent() != "macro-observer-test" {
			t.Errorf("user agent = %q", r.UserAgent())
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	body, err := newTestManager(0).Get(context.Background(), srv.URL+"/api", map[string]string{"top_n": "20"})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(body) != `{"ok":true}` {
		t.Fatalf("body = %s", body)
	}
}

func TestGetRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	body, err := newTestManager(3).Get(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(body) != "ok" || calls.Load() != 3 {
		t.Fatalf("body=%q calls=%d", body, calls.Load())
	}
}

func TestGetDoesNotRetryNotFound(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := newTestManager(3).Get(context.Background(), srv.URL, nil); err == nil {
		t.Fatal("expected error for 404")
	}
	if calls.Load() != 1 {
		t.Fatalf("calls = %d, want 1", calls.Load())
	}
}
