package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_RecordsStatusAndSize(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	h := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("tea"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/info", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("log entries = %d, want 1", len(entries))
	}

	fields := entries[0].ContextMap()
	if fields["status"] != int64(http.StatusTeapot) {
		t.Fatalf("status field = %v, want %d", fields["status"], http.StatusTeapot)
	}
	if fields["size"] != int64(3) {
		t.Fatalf("size field = %v, want 3", fields["size"])
	}
	if fields["method"] != http.MethodGet {
		t.Fatalf("method field = %v", fields["method"])
	}
}
