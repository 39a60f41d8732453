package server

import (
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	resp := doRequest(t, api.ts, http.MethodGet, "/healthz", nil)
	expectStatus(t, resp, http.StatusOK)
	body := decodeBody(t, resp)
	if body["status"] != "ok" || body["storage"] != "database" {
		t.Fatalf("unexpected health body %v", body)
	}

	memory := newTestAPI(t, withoutDatabase())
	resp = doRequest(t, memory.ts, http.MethodGet, "/healthz", nil)
	expectStatus(t, resp, http.StatusOK)
	if storage := decodeBody(t, resp)["storage"]; storage != "memory" {
		t.Fatalf("expected memory storage, got %v", storage)
	}
}

func TestRequestIDHeader(t *testing.T) {
	api := newTestAPI(t)

	resp := doRequest(t, api.ts, http.MethodGet, "/healthz", nil)
	if id := resp.Header.Get(requestIDHeader); len(id) != 36 {
		t.Fatalf("expected generated uuid request id, got %q", id)
	}

	req, err := http.NewRequest(http.MethodGet, api.ts.URL+"/healthz", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set(requestIDHeader, "trace-123")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	if id := resp.Header.Get(requestIDHeader); id != "trace-123" {
		t.Fatalf("expected request id to be echoed, got %q", id)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	api := newTestAPI(t)
	createPrivateGame(t, api, "abc", 3)
	doRequest(t, api.ts, http.MethodGet, "/api/privateGames/77/players", nil)

	resp := doRequest(t, api.ts, http.MethodGet, "/metrics", nil)
	expectStatus(t, resp, http.StatusOK)
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	text := string(raw)
	for _, want := range []string{
		`gamehub_private_game_operations_total{op="create",result="ok"} 1`,
		`gamehub_private_game_operations_total{op="players",result="not_found"} 1`,
		`gamehub_http_requests_total{method="POST",route="/api/privateGames",status="201"} 1`,
		`route="/api/privateGames/:id/players"`,
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("metrics output missing %s", want)
		}
	}
}

func TestUnknownRoute(t *testing.T) {
	api := newTestAPI(t)
	resp := doRequest(t, api.ts, http.MethodGet, "/api/nothing", nil)
	expectStatus(t, resp, http.StatusNotFound)
	if msg := decodeBody(t, resp)["error"]; msg != "not found" {
		t.Fatalf("unexpected error body %v", msg)
	}
}

func TestCORSHeaders(t *testing.T) {
	api := newTestAPI(t)
	req, err := http.NewRequest(http.MethodGet, api.ts.URL+"/api/privateGames", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Origin", "http://example.com")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected wildcard CORS origin, got %q", got)
	}
}

func TestBuildPagination(t *testing.T) {
	p := buildPagination(2, 10, 25)
	if p.TotalPages != 3 || !p.HasPrev || !p.HasNext {
		t.Fatalf("unexpected pagination %#v", p)
	}
	empty := buildPagination(1, 10, 0)
	if empty.TotalPages != 0 || empty.HasNext || empty.HasPrev {
		t.Fatalf("unexpected empty pagination %#v", empty)
	}
}

func TestValidatePasswd(t *testing.T) {
	if err := validatePasswd(" spaced pass "); err != nil {
		t.Fatalf("expected spaces to be allowed: %v", err)
	}
	if err := validatePasswd(strings.Repeat("x", maxPasswdLength+1)); err == nil {
		t.Fatalf("expected overlong passwd to fail")
	}
	if err := validatePasswd(""); err == nil {
		t.Fatalf("expected empty passwd to fail")
	}
}
