package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/carousel/pkg/cache"
	"github.com/matzehuels/carousel/pkg/config"
	"github.com/matzehuels/carousel/pkg/errors"
	"github.com/matzehuels/carousel/pkg/layout"
	"github.com/matzehuels/carousel/pkg/observability"
	"github.com/matzehuels/carousel/pkg/pipeline"
	"github.com/matzehuels/carousel/pkg/preset"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func newTestServer(t *testing.T, store preset.Store) *Server {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	runner := pipeline.NewRunner(c, nil, quietLogger())
	return New(runner, store, config.Default().Server, quietLogger())
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("missing request ID header")
	}
	if got := decode[HealthResponse](t, rec); got.Status != "ok" || got.Build.Version == "" {
		t.Errorf("body = %+v", got)
	}
}

func TestRequestIDEcho(t *testing.T) {
	s := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("X-Request-ID = %q, want echoed abc-123", got)
	}
}

func TestKeylines(t *testing.T) {
	s := newTestServer(t, nil)
	body := `{"items":[{"size":0,"anchor":true},{"size":100},{"size":40},{"size":0,"anchor":true}],"main_axis_size":200}`

	rec := do(t, s, http.MethodPost, "/v1/keylines", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if got := rec.Header().Get(CacheHeader); got != "miss" {
		t.Errorf("first %s = %q, want miss", CacheHeader, got)
	}
	l := decode[layout.Layout](t, rec)
	if len(l.Keylines) != 4 || l.Strategy != "explicit" || l.ItemCount != 2 {
		t.Errorf("layout = %+v", l)
	}
	if l.Placements != nil {
		t.Error("keylines response should not contain placements")
	}

	rec = do(t, s, http.MethodPost, "/v1/keylines", body)
	if got := rec.Header().Get(CacheHeader); got != "hit" {
		t.Errorf("second %s = %q, want hit", CacheHeader, got)
	}
}

func TestPlace(t *testing.T) {
	s := newTestServer(t, nil)
	body := `{"strategy":"uncontained","main_axis_size":360,"item_size":100,"item_count":5,"scroll":0}`

	rec := do(t, s, http.MethodPost, "/v1/place", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	l := decode[layout.Layout](t, rec)
	if len(l.Placements) != 5 {
		t.Fatalf("placements = %d, want 5", len(l.Placements))
	}
	want := []float64{50, 158, 266, 342, 368}
	for i, p := range l.Placements {
		if p.Offset != want[i] {
			t.Errorf("placement %d offset = %v, want %v", i, p.Offset, want[i])
		}
	}
	if l.Placements[4].Visible {
		t.Error("item 4 should be off screen")
	}
	if got := rec.Header().Get(CacheHeader); got != "keylines=miss, placements=miss" {
		t.Errorf("%s = %q", CacheHeader, got)
	}
}

func TestMultiBrowseTinyPreferredSize(t *testing.T) {
	s := newTestServer(t, nil)
	body := `{"strategy":"multi-browse","main_axis_size":360,"preferred_item_size":1e-7,"item_count":5}`

	rec := do(t, s, http.MethodPost, "/v1/keylines", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	l := decode[layout.Layout](t, rec)
	if first, last := l.FocalRange(); last-first+1 != 4 {
		t.Errorf("focal run = [%d, %d], want four large items", first, last)
	}
}

func TestErrors(t *testing.T) {
	s := newTestServer(t, nil)
	small := newTestServer(t, nil)
	small.cfg.MaxBodyBytes = 16

	tests := []struct {
		name   string
		srv    *Server
		path   string
		body   string
		status int
		code   errors.Code
	}{
		{"malformed json", s, "/v1/keylines", `{`, 400, errors.ErrCodeInvalidFormat},
		{"unknown field", s, "/v1/keylines", `{"sizes":[1]}`, 400, errors.ErrCodeInvalidFormat},
		{"trailing document", s, "/v1/keylines", `{"items":[{"size":1}]} {}`, 400, errors.ErrCodeInvalidFormat},
		{"bad pivot", s, "/v1/keylines", `{"items":[{"size":10}],"pivot":{"index":4}}`, 400, errors.ErrCodeInvalidPivot},
		{"bad strategy", s, "/v1/keylines", `{"strategy":"grid"}`, 400, errors.ErrCodeInvalidStrategy},
		{"no items", s, "/v1/place", `{"strategy":"explicit"}`, 422, errors.ErrCodeEmptyLayout},
		{"negative size", s, "/v1/place", `{"items":[{"size":-1}]}`, 400, errors.ErrCodeInvalidSize},
		{"too large", small, "/v1/keylines", `{"items":[{"size":100},{"size":40}]}`, 400, errors.ErrCodeInvalidInput},
		{"too many items", s, "/v1/place", `{"strategy":"uncontained","item_count":67108864}`, 400, errors.ErrCodeInvalidInput},
		{"tiny item size", s, "/v1/keylines", `{"strategy":"uncontained","item_size":1e-7,"item_spacing":0}`, 400, errors.ErrCodeInvalidSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, tt.srv, http.MethodPost, tt.path, tt.body)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body)
			}
			got := decode[ErrorResponse](t, rec)
			if got.Code != tt.code {
				t.Errorf("code = %s, want %s", got.Code, tt.code)
			}
			if got.Message == "" || got.RequestID == "" {
				t.Errorf("incomplete error body: %+v", got)
			}
		})
	}
}

func TestPresetLifecycle(t *testing.T) {
	s := newTestServer(t, preset.NewMemoryStore())
	body := `{"description":"five cards","options":{"strategy":"uncontained","item_size":100,"item_count":5}}`

	rec := do(t, s, http.MethodPut, "/v1/presets/cards", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT status = %d, body %s", rec.Code, rec.Body)
	}
	saved := decode[preset.Preset](t, rec)
	if saved.ID == "" || saved.Name != "cards" {
		t.Errorf("PUT body = %+v", saved)
	}

	rec = do(t, s, http.MethodGet, "/v1/presets/cards", "")
	if got := decode[preset.Preset](t, rec); got.ID != saved.ID || got.Description != "five cards" {
		t.Errorf("GET body = %+v", got)
	}

	rec = do(t, s, http.MethodGet, "/v1/presets", "")
	if got := decode[PresetList](t, rec); len(got.Presets) != 1 {
		t.Errorf("list = %+v, want one preset", got)
	}

	rec = do(t, s, http.MethodGet, "/v1/presets/cards/layout?scroll=108", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("layout status = %d, body %s", rec.Code, rec.Body)
	}
	l := decode[layout.Layout](t, rec)
	if l.Scroll == nil || *l.Scroll != 108 || len(l.Placements) != 5 {
		t.Errorf("layout = %+v", l)
	}
	// Item 1 sits at the pivot once scrolled by one step.
	if l.Placements[1].Offset != 50 {
		t.Errorf("item 1 offset = %v, want 50", l.Placements[1].Offset)
	}

	rec = do(t, s, http.MethodGet, "/v1/presets/cards/layout?scroll=abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad scroll status = %d, want 400", rec.Code)
	}

	rec = do(t, s, http.MethodDelete, "/v1/presets/cards", "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("DELETE status = %d, want 204", rec.Code)
	}
	rec = do(t, s, http.MethodGet, "/v1/presets/cards", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET after DELETE status = %d, want 404", rec.Code)
	}
	if got := decode[ErrorResponse](t, rec); got.Code != errors.ErrCodePresetNotFound {
		t.Errorf("code = %s, want PRESET_NOT_FOUND", got.Code)
	}
}

func TestPresetValidation(t *testing.T) {
	s := newTestServer(t, preset.NewMemoryStore())

	rec := do(t, s, http.MethodPut, "/v1/presets/-bad", `{"options":{"strategy":"hero"}}`)
	if got := decode[ErrorResponse](t, rec); rec.Code != 400 || got.Code != errors.ErrCodeInvalidPreset {
		t.Errorf("bad name = %d %s, want 400 INVALID_PRESET", rec.Code, got.Code)
	}
	rec = do(t, s, http.MethodPut, "/v1/presets/ok", `{"options":{"strategy":"grid"}}`)
	if got := decode[ErrorResponse](t, rec); rec.Code != 400 || got.Code != errors.ErrCodeInvalidStrategy {
		t.Errorf("bad options = %d %s, want 400 INVALID_STRATEGY", rec.Code, got.Code)
	}
}

func TestPresetsWithoutStore(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(t, s, http.MethodGet, "/v1/presets", "")
	if rec.Code != http.StatusNotImplemented {
		t.Errorf("status = %d, want 501", rec.Code)
	}
}

func TestRouting(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodGet, "/v2/nothing", "")
	if got := decode[ErrorResponse](t, rec); rec.Code != 404 || got.Code != errors.ErrCodeNotFound {
		t.Errorf("unknown route = %d %s", rec.Code, got.Code)
	}
	rec = do(t, s, http.MethodGet, "/v1/keylines", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /v1/keylines status = %d, want 405", rec.Code)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code errors.Code
		want int
	}{
		{errors.ErrCodeInvalidPivot, 400},
		{errors.ErrCodeInvalidFormat, 400},
		{errors.ErrCodeEmptyLayout, 422},
		{errors.ErrCodePresetNotFound, 404},
		{errors.ErrCodeNetwork, 502},
		{errors.ErrCodeTimeout, 504},
		{errors.ErrCodeUnsupported, 501},
		{errors.ErrCodeInternal, 500},
		{"", 500},
	}
	for _, tt := range tests {
		if got := StatusFor(tt.code); got != tt.want {
			t.Errorf("StatusFor(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

type httpRecorder struct {
	observability.NoopHTTPHooks
	mu     sync.Mutex
	routes []string
}

func (h *httpRecorder) OnResponse(_ context.Context, method, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, method+" "+route+" "+http.StatusText(status))
}

func TestHTTPHooks(t *testing.T) {
	rec := &httpRecorder{}
	observability.SetHTTPHooks(rec)
	t.Cleanup(observability.Reset)

	s := newTestServer(t, nil)
	do(t, s, http.MethodPost, "/v1/keylines", `{"items":[{"size":10}]}`)

	if len(rec.routes) != 1 || rec.routes[0] != "POST /v1/keylines OK" {
		t.Errorf("routes = %v", rec.routes)
	}
}

func TestServeShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("cannot listen: %v", err)
	}
	s := newTestServer(t, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error = %v, want nil after shutdown", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}
