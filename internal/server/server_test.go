package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Fl3xxRichie/vidsnag/internal/util"
)

func TestHealthEndpoint(t *testing.T) {
	srv := New("0", "memory", util.Tools{Ytdlp: true, FFmpeg: false})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200", rec.Code)
	}

	var h Health
	if err := json.NewDecoder(rec.Body).Decode(&h); err != nil {
		t.Fatalf("bad health JSON: %v", err)
	}
	if h.Status != "ok" {
		t.Errorf("Status = %q, expected ok", h.Status)
	}
	if h.Store != "memory" {
		t.Errorf("Store = %q, expected memory", h.Store)
	}
	if !h.Ytdlp || h.FFmpeg {
		t.Errorf("tool flags = ytdlp:%v ffmpeg:%v, expected true/false", h.Ytdlp, h.FFmpeg)
	}
}

func TestSecurityHeaders(t *testing.T) {
	srv := New("0", "redis", util.Tools{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)

	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing nosniff header")
	}
	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("missing frame options header")
	}
}

func TestUnknownRoute(t *testing.T) {
	srv := New("0", "memory", util.Tools{})

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, expected 404", rec.Code)
	}
}
