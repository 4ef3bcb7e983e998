package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/sweetcrumb/storefront/internal/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLogger_LogsStatusAndRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		middleware.LoggerFromContext(r.Context()).Debug("inside handler")
		w.WriteHeader(http.StatusNotFound)
	})
	handler := chimw.RequestID(middleware.RequestLogger(zap.New(core))(inner))

	req := httptest.NewRequest("GET", "/products/missing", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("log entries: got %d, want 2", len(entries))
	}
	if entries[0].Message != "inside handler" {
		t.Errorf("first entry: got %q", entries[0].Message)
	}
	access := entries[1]
	if access.Level != zapcore.WarnLevel {
		t.Errorf("level: got %v, want warn", access.Level)
	}
	fields := access.ContextMap()
	if fields["status"] != int64(404) {
		t.Errorf("status field: got %v", fields["status"])
	}
	if fields["path"] != "/products/missing" {
		t.Errorf("path field: got %v", fields["path"])
	}
	if id, _ := fields["request_id"].(string); id == "" {
		t.Error("expected request_id field")
	}
}

func TestRequestLogger_DefaultStatus(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	handler := middleware.RequestLogger(zap.New(core))(inner)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/health", nil))

	if logs.Len() != 1 {
		t.Fatalf("log entries: got %d, want 1", logs.Len())
	}
	if got := logs.All()[0].ContextMap()["status"]; got != int64(200) {
		t.Errorf("status field: got %v, want 200", got)
	}
}

func TestLoggerFromContext_NoLogger(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if middleware.LoggerFromContext(req.Context()) == nil {
		t.Fatal("expected a no-op logger")
	}
}

func TestRequireJSON(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := middleware.RequireJSON(inner)

	tests := []struct {
		name        string
		contentType string
		body        string
		want        int
	}{
		{"json", "application/json", `{}`, http.StatusOK},
		{"json with charset", "application/json; charset=utf-8", `{}`, http.StatusOK},
		{"no body", "", "", http.StatusOK},
		{"form", "application/x-www-form-urlencoded", "a=b", http.StatusUnsupportedMediaType},
		{"missing type with body", "", `{}`, http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/checkout/whatsapp", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Errorf("status: got %d, want %d", rr.Code, tt.want)
			}
		})
	}
}
