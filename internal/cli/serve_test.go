package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/quaverlabs/quaver/pkg/cache"
	"github.com/quaverlabs/quaver/pkg/pipeline"
	"github.com/quaverlabs/quaver/pkg/seq"
)

func newTestMux() http.Handler {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(cache.NewMemoryCache(), nil, logger)
	return newServeMux(runner, logger)
}

func TestHealthz(t *testing.T) {
	mux := newTestMux()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("response should carry a request ID")
	}
}

func TestRequestIDPassthrough(t *testing.T) {
	mux := newTestMux()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "test-id-123")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-Id"); got != "test-id-123" {
		t.Errorf("request ID = %q, want test-id-123", got)
	}
}

func TestHandleCompile(t *testing.T) {
	mux := newTestMux()

	body := bytes.NewBufferString(`{"pattern": "1 2 [3 4]*2"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/compile", body)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp compileResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.StepCount != 6 {
		t.Errorf("StepCount = %d, want 6", resp.StepCount)
	}
	want := seq.Notes(1, 2, 3, 4, 3, 4)
	if !resp.Steps.Equal(want) {
		t.Errorf("Steps = %v, want %v", resp.Steps, want)
	}
	if resp.PatternHash == "" {
		t.Error("PatternHash should be set")
	}
}

func TestHandleCompileCached(t *testing.T) {
	mux := newTestMux()

	for i := 0; i < 2; i++ {
		body := bytes.NewBufferString(`{"pattern": "5 6 7"}`)
		req := httptest.NewRequest(http.MethodPost, "/v1/compile", body)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		var resp compileResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if wantCached := i == 1; resp.Cached != wantCached {
			t.Errorf("run %d: Cached = %v, want %v", i, resp.Cached, wantCached)
		}
	}
}

func TestHandleCompileBadRequest(t *testing.T) {
	mux := newTestMux()

	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"invalid JSON", `{pattern:}`, "INVALID_INPUT"},
		{"missing pattern", `{}`, "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/compile", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode error payload: %v", err)
			}
			if resp.Code != tt.wantCode {
				t.Errorf("error code = %q, want %q", resp.Code, tt.wantCode)
			}
		})
	}
}

func TestHandleTransforms(t *testing.T) {
	mux := newTestMux()

	req := httptest.NewRequest(http.MethodGet, "/v1/transforms", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp map[string][]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp["transforms"]) != 11 {
		t.Errorf("got %d transforms, want 11", len(resp["transforms"]))
	}
}

func TestHandleTransform(t *testing.T) {
	mux := newTestMux()

	body := bytes.NewBufferString(`{"name": "reverse", "pattern": "1 2 3"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/transform", body)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp compileResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	want := seq.Notes(3, 2, 1)
	if !resp.Steps.Equal(want) {
		t.Errorf("Steps = %v, want %v", resp.Steps, want)
	}
}

func TestHandleTransformWithParam(t *testing.T) {
	mux := newTestMux()

	body := bytes.NewBufferString(`{"name": "invert", "param": 5, "pattern": "1 9"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/transform", body)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	var resp compileResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	want := seq.Notes(9, 1)
	if !resp.Steps.Equal(want) {
		t.Errorf("Steps = %v, want %v", resp.Steps, want)
	}
}

func TestHandleTransformUnknown(t *testing.T) {
	mux := newTestMux()

	body := bytes.NewBufferString(`{"name": "warp", "pattern": "1 2 3"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/transform", body)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error payload: %v", err)
	}
	if resp.Code != "UNKNOWN_TRANSFORM" {
		t.Errorf("error code = %q, want UNKNOWN_TRANSFORM", resp.Code)
	}
}

func TestServeKeyer(t *testing.T) {
	if k := serveKeyer(""); k != nil {
		t.Error("empty scope should fall back to the default keyer")
	}

	k := serveKeyer("studio-a")
	seqKey := k.SequenceKey("1 2 3", cache.SequenceKeyOpts{})
	if !strings.HasPrefix(seqKey, "studio-a:") {
		t.Errorf("sequence key %q should carry the scope prefix", seqKey)
	}
	artKey := k.ArtifactKey("abc", cache.ArtifactKeyOpts{Format: "svg"})
	if !strings.HasPrefix(artKey, "studio-a:") {
		t.Errorf("artifact key %q should carry the scope prefix", artKey)
	}
}

func TestHandleRandom(t *testing.T) {
	mux := newTestMux()

	body := bytes.NewBufferString(`{"length": 8, "seed": 42}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/random", body)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp randomResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Steps) < 8 {
		t.Errorf("got %d steps, want at least 8", len(resp.Steps))
	}
	if resp.Pattern == "" {
		t.Error("Pattern should be set")
	}

	// Same seed gives the same pattern.
	req2 := httptest.NewRequest(http.MethodPost, "/v1/random", bytes.NewBufferString(`{"length": 8, "seed": 42}`))
	rec2 := httptest.NewRecorder()
	mux.ServeHTTP(rec2, req2)

	var resp2 randomResponse
	if err := json.Unmarshal(rec2.Body.Bytes(), &resp2); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Pattern != resp2.Pattern {
		t.Errorf("seeded random should be reproducible: %q vs %q", resp.Pattern, resp2.Pattern)
	}
}
