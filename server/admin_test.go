package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHandleConfigIsReadOnly(t *testing.T) {
	cfg := testConfig()
	h := HandleConfig(cfg)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/admin/config", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET status = %d, want 200", rec.Code)
	}
	var got Config
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode config: %v", err)
	}
	if got.ScreenWidth != cfg.ScreenWidth || got.TicksPerSecond != cfg.TicksPerSecond {
		t.Fatalf("config mismatch: %+v", got)
	}

	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/admin/config", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST status = %d, want 405", rec.Code)
	}
}

func TestHandleMetricsReportsGameState(t *testing.T) {
	g := NewGame(testConfig())
	reg := NewRegistry()
	g.Tick()

	rec := httptest.NewRecorder()
	HandleMetrics(g, reg)(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode metrics: %v", err)
	}
	if payload["lives"].(float64) != 3 {
		t.Fatalf("lives = %v, want 3", payload["lives"])
	}
	if _, ok := payload["metrics"]; !ok {
		t.Fatalf("missing metrics block: %v", payload)
	}
}
