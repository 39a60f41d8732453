package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"gamehub/internal/config"
	"gamehub/internal/db/dbtest"
	"gamehub/internal/gateway"
	"gamehub/internal/logging"
	"gamehub/internal/messages"
	"gamehub/internal/metrics"
	"gamehub/internal/privategames"
)

type testAPI struct {
	ts      *httptest.Server
	srv     *Server
	store   *privategames.MemoryStore
	metrics *metrics.Recorder
}

type apiSetup struct {
	cfg        config.Config
	alloc      gateway.Allocator
	noDatabase bool
}

type apiOption func(*apiSetup)

func withGateway(alloc gateway.Allocator) apiOption {
	return func(s *apiSetup) {
		s.alloc = alloc
	}
}

func withoutDatabase() apiOption {
	return func(s *apiSetup) {
		s.noDatabase = true
	}
}

// newTestAPI serves private games from memory and messages from an
// in-memory SQLite database holding users 1, 2 and 3.
func newTestAPI(t *testing.T, opts ...apiOption) *testAPI {
	t.Helper()
	setup := apiSetup{
		cfg:   config.Default(),
		alloc: gateway.NewStatic(config.DefaultGatewayEndpoint),
	}
	for _, opt := range opts {
		opt(&setup)
	}

	logger := logging.Discard()
	recorder := metrics.NewRecorder()
	store := privategames.NewMemoryStore()
	deps := Deps{
		Games:   privategames.NewService(store, setup.alloc, privategames.Options{Logger: logger, Metrics: recorder}),
		Logger:  logger,
		Metrics: recorder,
	}
	if !setup.noDatabase {
		conn := dbtest.Open(t)
		dbtest.SeedUsers(t, conn, 1, 2, 3)
		deps.DB = conn
		deps.Messages = messages.NewService(conn, logger)
	}
	srv := New(setup.cfg, deps)
	return &testAPI{ts: newTestServer(t, srv.Handler()), srv: srv, store: store, metrics: recorder}
}

func doRequest(t *testing.T, ts *httptest.Server, method, path string, payload any) *http.Response {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() {
		_ = resp.Body.Close()
	})
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func decodeList(t *testing.T, resp *http.Response) []map[string]any {
	t.Helper()
	var body []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("expected status %d, got %d", want, resp.StatusCode)
	}
}

func assertString(t *testing.T, value any) string {
	t.Helper()
	s, ok := value.(string)
	if !ok {
		t.Fatalf("expected string, got %T", value)
	}
	return s
}

func assertNumber(t *testing.T, value any) float64 {
	t.Helper()
	n, ok := value.(float64)
	if !ok {
		t.Fatalf("expected number, got %T", value)
	}
	return n
}
