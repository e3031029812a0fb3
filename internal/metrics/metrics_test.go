package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSnapshot_Empty(t *testing.T) {
	s := New().Snapshot()
	if s != (Snapshot{}) {
		t.Fatalf("expected zero snapshot, got %+v", s)
	}
}

func TestSnapshot_ReflectsObservations(t *testing.T) {
	m := New()

	m.RequestStarted()
	m.RequestStarted()
	m.RequestFinished("/api/chat", http.MethodPost, 200)

	m.ObserveInference(100*time.Millisecond, nil)
	m.ObserveInference(300*time.Millisecond, errors.New("timeout"))

	m.ObserveKV("get", nil)
	m.ObserveKV("put", nil)
	m.ObserveKV("put", errors.New("down"))

	s := m.Snapshot()
	if s.Requests != 1 || s.InFlight != 1 {
		t.Fatalf("unexpected request counters %+v", s)
	}
	if s.LLMCalls != 2 || s.LLMFailures != 1 {
		t.Fatalf("unexpected llm counters %+v", s)
	}
	if s.LLMMeanLatencyMs < 199 || s.LLMMeanLatencyMs > 201 {
		t.Fatalf("expected ~200ms mean latency, got %v", s.LLMMeanLatencyMs)
	}
	if s.KVOps != 3 || s.KVFailures != 1 {
		t.Fatalf("unexpected kv counters %+v", s)
	}
}

func TestHandler_ExposesMetrics(t *testing.T) {
	m := New()
	m.RequestStarted()
	m.RequestFinished("", http.MethodGet, 404)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(string(body), `assistant_http_requests_total{method="GET",route="unmatched",status="404"} 1`) {
		t.Fatalf("expected request counter in exposition, got:\n%s", body)
	}
}
