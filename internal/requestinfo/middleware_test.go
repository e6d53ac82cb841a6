package requestinfo

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func serve(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, *RequestInfo, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.InfoLevel)
	var seen *RequestInfo
	h := Enrich(zap.New(core).Sugar())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr, seen, logs
}

func TestEnrich_MintsRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/widgets", nil)
	rr, info, logs := serve(t, req)

	if info == nil {
		t.Fatal("RequestInfo missing from context")
	}
	if _, err := uuid.Parse(info.ID); err != nil {
		t.Fatalf("id %q is not a UUID", info.ID)
	}
	if got := rr.Header().Get(HeaderRequestID); got != info.ID {
		t.Fatalf("header = %q, want %q", got, info.ID)
	}
	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("log entries = %d, want 1", len(entries))
	}
	if st := entries[0].ContextMap()["status"]; st != int64(http.StatusTeapot) {
		t.Fatalf("logged status = %v", st)
	}
}

func TestEnrich_ReusesValidInboundID(t *testing.T) {
	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, id)
	_, info, _ := serve(t, req)
	if info.ID != id {
		t.Fatalf("id = %q, want inbound %q", info.ID, id)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "not-a-uuid\r\n")
	_, info, _ = serve(t, req)
	if info.ID == "not-a-uuid\r\n" {
		t.Fatal("garbage inbound id was echoed")
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "garbage, 203.0.113.9, 10.0.0.1")
	if ip := clientIP(req); ip.String() != "203.0.113.9" {
		t.Fatalf("xff ip = %v", ip)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "198.51.100.4:5555"
	if ip := clientIP(req); ip.String() != "198.51.100.4" {
		t.Fatalf("remote ip = %v", ip)
	}
}

func TestParseUA(t *testing.T) {
	ua := parseUA("Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)")
	if !ua.IsBot {
		t.Errorf("Googlebot not flagged as bot: %+v", ua)
	}
	if got := parseUA(""); got.Device != "Unknown" {
		t.Errorf("empty UA device = %q", got.Device)
	}
}
