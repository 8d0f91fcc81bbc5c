package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientKey_PrefersCDNHeader(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "http://example/book", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	r.Header.Set("X-Forwarded-For", "5.6.7.8")
	r.Header.Set("CF-Connecting-IP", " 1.2.3.4 ")

	if got := ClientKey(r); got != "1.2.3.4" {
		t.Fatalf("expected CDN header value, got %q", got)
	}
}

func TestClientKey_UsesFirstForwardedHop(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "http://example/book", nil)
	r.RemoteAddr = "10.0.0.9:5555"
	r.Header.Set("X-Forwarded-For", "1.2.3.4, 5.6.7.8")

	if got := ClientKey(r); got != "1.2.3.4" {
		t.Fatalf("expected first XFF ip, got %q", got)
	}
}

func TestClientKey_FallsBackToRemoteHost(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "http://example/book", nil)
	r.RemoteAddr = "10.0.0.9:5555"
	if got := ClientKey(r); got != "10.0.0.9" {
		t.Fatalf("expected remote host, got %q", got)
	}

	r.Header.Set("X-Real-IP", "9.9.9.9")
	if got := ClientKey(r); got != "9.9.9.9" {
		t.Fatalf("expected X-Real-IP, got %q", got)
	}
}

func TestClientKey_Unknown(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "http://example/book", nil)
	r.RemoteAddr = ""
	if got := ClientKey(r); got != UnknownClient {
		t.Fatalf("expected %q, got %q", UnknownClient, got)
	}
}
