package cli

import (
	"context"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/noisering/pkg/cache"
	"github.com/matzehuels/noisering/pkg/config"
	"github.com/matzehuels/noisering/pkg/errors"
	"github.com/matzehuels/noisering/pkg/observability"
	"github.com/matzehuels/noisering/pkg/pipeline"
)

func testServer(t *testing.T, store cache.Cache) *httptest.Server {
	t.Helper()
	cfg := config.Default()
	cfg.Canvas = config.Canvas{Width: 64, Height: 64}
	quiet := log.New(io.Discard)
	srv := httptest.NewServer(newFrameServer(cfg, pipeline.NewRunner(quiet), store, quiet).routes())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string, header ...string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestServeHealth(t *testing.T) {
	srv := testServer(t, cache.NewNullCache())

	resp := get(t, srv.URL+"/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "ok\n" {
		t.Errorf("body = %q, want %q", body, "ok\n")
	}
	if got := resp.Header.Get("Server"); got != "noisering/dev" {
		t.Errorf("Server = %q, want noisering/dev", got)
	}
	if _, err := uuid.Parse(resp.Header.Get(headerRenderID)); err != nil {
		t.Errorf("%s = %q is not a UUID: %v", headerRenderID, resp.Header.Get(headerRenderID), err)
	}
}

func TestServeRenderIDUnique(t *testing.T) {
	srv := testServer(t, cache.NewNullCache())
	a := get(t, srv.URL+"/healthz").Header.Get(headerRenderID)
	b := get(t, srv.URL+"/healthz").Header.Get(headerRenderID)
	if a == b {
		t.Errorf("two requests share render ID %q", a)
	}
}

func TestServeFramePNG(t *testing.T) {
	srv := testServer(t, cache.NewMemory(8, time.Minute))

	tests := []struct {
		path string
		size int
	}{
		{"/frames/1", 64},
		{"/frames/0", 64},
		{"/frames/785?scale=2", 128},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp := get(t, srv.URL+tt.path)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, want 200", resp.StatusCode)
			}
			if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
				t.Errorf("Content-Type = %q, want image/png", ct)
			}
			cfg, err := png.DecodeConfig(resp.Body)
			if err != nil {
				t.Fatalf("DecodeConfig() error: %v", err)
			}
			if cfg.Width != tt.size || cfg.Height != tt.size {
				t.Errorf("image = %dx%d, want %dx%d", cfg.Width, cfg.Height, tt.size, tt.size)
			}
		})
	}
}

func TestServeFrameETag(t *testing.T) {
	srv := testServer(t, cache.NewMemory(8, time.Minute))

	first := get(t, srv.URL+"/frames/42")
	etag := first.Header.Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}
	if second := get(t, srv.URL+"/frames/42"); second.Header.Get("ETag") != etag {
		t.Errorf("ETag changed between identical requests: %q vs %q", etag, second.Header.Get("ETag"))
	}
	if other := get(t, srv.URL+"/frames/43"); other.Header.Get("ETag") == etag {
		t.Error("different frames share an ETag")
	}

	cached := get(t, srv.URL+"/frames/42", "If-None-Match", etag)
	if cached.StatusCode != http.StatusNotModified {
		t.Errorf("status = %d, want 304", cached.StatusCode)
	}
}

func TestServeFrameANSI(t *testing.T) {
	srv := testServer(t, cache.NewNullCache())

	resp := get(t, srv.URL+"/frames/10/ansi?cols=20&rows=10")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q, want text/plain", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if lines := strings.Split(string(body), "\n"); len(lines) != 10 {
		t.Errorf("ANSI body has %d lines, want 10", len(lines))
	}
	if !strings.Contains(string(body), "\x1b[") {
		t.Error("ANSI body carries no escape sequences")
	}
}

func TestServeFrameErrors(t *testing.T) {
	srv := testServer(t, cache.NewNullCache())

	tests := []struct {
		path   string
		status int
	}{
		{"/frames/abc", http.StatusBadRequest},
		{"/frames/-1", http.StatusBadRequest},
		{"/frames/1?scale=big", http.StatusBadRequest},
		{"/frames/1?scale=-2", http.StatusBadRequest},
		{"/frames/1?scale=1e6", http.StatusBadRequest},
		{"/frames/1?scale=NaN", http.StatusBadRequest},
		{"/frames/1/ansi?cols=1000000&rows=1000000", http.StatusBadRequest},
		{"/frames/1/ansi?cols=x", http.StatusBadRequest},
		{"/frames", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if resp := get(t, srv.URL+tt.path); resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
		})
	}
}

func TestServeConfig(t *testing.T) {
	srv := testServer(t, cache.NewNullCache())

	resp := get(t, srv.URL+"/config")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	cfg, err := config.Decode(resp.Body)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if cfg.Canvas.Width != 64 {
		t.Errorf("canvas width = %d, want 64", cfg.Canvas.Width)
	}
}

type recordingServeHooks struct {
	observability.NoopServeHooks
	mu       sync.Mutex
	statuses []int
}

func (h *recordingServeHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses = append(h.statuses, status)
}

func TestServeHooks(t *testing.T) {
	hooks := &recordingServeHooks{}
	observability.SetServeHooks(hooks)
	defer observability.Reset()

	srv := testServer(t, cache.NewNullCache())
	get(t, srv.URL+"/healthz")
	get(t, srv.URL+"/frames/nope")

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if len(hooks.statuses) != 2 || hooks.statuses[0] != 200 || hooks.statuses[1] != 400 {
		t.Errorf("statuses = %v, want [200 400]", hooks.statuses)
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeInvalidFrame, "bad"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeInvalidConfig, "bad"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeNoiseRange, "bad"), http.StatusInternalServerError},
		{errors.New(errors.ErrCodeInternal, "boom"), http.StatusInternalServerError},
		{errors.New(errors.ErrCodeNotSetup, "early"), http.StatusInternalServerError},
		{context.Canceled, 499},
		{io.EOF, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := httpStatus(tt.err); got != tt.want {
			t.Errorf("httpStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
