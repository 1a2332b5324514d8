package server

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"github.com/matzehuels/chordwheel/pkg/buildinfo"
	"github.com/matzehuels/chordwheel/pkg/cache"
	"github.com/matzehuels/chordwheel/pkg/dataset"
	"github.com/matzehuels/chordwheel/pkg/observability"
	"github.com/matzehuels/chordwheel/pkg/pipeline"
	"github.com/matzehuels/chordwheel/pkg/relation"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("gopkg.in/natefinch/lumberjack%2ev2.(*Logger).millRun"),
	)
}

var sample = []relation.Relationship{
	{Source: "2 Finance", Target: "A. Policy", Value: 2},
	{Source: "A1 Intake", Target: "B1 Audit", Value: 5},
	{Source: "B1 Audit", Target: "A1 Intake", Value: 3},
}

func newTestServer(t *testing.T, opts Options) (*Server, *dataset.MemoryStore) {
	t.Helper()
	store := dataset.NewMemoryStore(sample)
	logger := log.NewWithOptions(io.Discard, log.Options{})
	// No cleanup interval: go-cache would otherwise start a janitor goroutine.
	runner := pipeline.NewRunner(cache.NewMemoryCache(time.Hour, 0), nil, logger)
	return New(store, runner, logger, opts), store
}

func do(t *testing.T, h http.Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, Options{})
	rec := do(t, s.Handler(), http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("healthz = %d %s", rec.Code, rec.Body)
	}
}

func TestVersion(t *testing.T) {
	s, _ := newTestServer(t, Options{})
	rec := do(t, s.Handler(), http.MethodGet, "/version", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("version = %d %s", rec.Code, rec.Body)
	}
	var info buildinfo.Info
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatal(err)
	}
	if info != buildinfo.Get() {
		t.Errorf("version body = %+v, want %+v", info, buildinfo.Get())
	}
	if got := rec.Header().Get("Server"); got != buildinfo.ServerHeader() {
		t.Errorf("Server header = %q, want %q", got, buildinfo.ServerHeader())
	}
}

func TestGetRelationships(t *testing.T) {
	s, store := newTestServer(t, Options{})
	rec := do(t, s.Handler(), http.MethodGet, "/api/relationships", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	snap, _ := store.Load(context.Background())
	if rec.Header().Get("X-Revision") != snap.Revision {
		t.Error("X-Revision mismatch")
	}
	want := "2 Finance,A. Policy,2\nA1 Intake,B1 Audit,5\nB1 Audit,A1 Intake,3\n"
	if diff := cmp.Diff(want, rec.Body.String()); diff != "" {
		t.Errorf("body (-want +got):\n%s", diff)
	}
}

func TestPostRelationships(t *testing.T) {
	s, store := newTestServer(t, Options{})
	body := "X1 One,Y1 Two,4\nY1 Two,X1 One,1\nX1 One,Y1 Two,7\n"
	rec := do(t, s.Handler(), http.MethodPost, "/api/relationships", strings.NewReader(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var resp saveResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success || resp.Revision == "" || resp.Relationships != 3 || resp.Overwritten != 1 {
		t.Errorf("response = %+v", resp)
	}
	snap, _ := store.Load(context.Background())
	if snap.Revision != resp.Revision || len(snap.Relationships) != 3 {
		t.Errorf("store = %+v", snap)
	}
}

func TestPostRelationshipsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"fields", "a,b\n", "line 1"},
		{"value", "a,b,1\nc,d,lots\n", "line 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, store := newTestServer(t, Options{})
			before, _ := store.Load(context.Background())
			rec := do(t, s.Handler(), http.MethodPost, "/api/relationships", strings.NewReader(tt.body))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d", rec.Code)
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(resp.Error, tt.want) {
				t.Errorf("error = %q, want mention of %q", resp.Error, tt.want)
			}
			if after, _ := store.Load(context.Background()); after.Revision != before.Revision {
				t.Error("invalid upload changed the store")
			}
		})
	}
}

func TestPostRelationshipsTooLarge(t *testing.T) {
	s, _ := newTestServer(t, Options{MaxUploadBytes: 16})
	rec := do(t, s.Handler(), http.MethodPost, "/api/relationships", strings.NewReader(strings.Repeat("a,b,1\n", 10)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d: %s", rec.Code, rec.Body)
	}
}

type rateHooks struct {
	observability.NoopServerHooks
	mu      sync.Mutex
	limited int
}

func (h *rateHooks) OnRateLimited(context.Context, string, string) {
	h.mu.Lock()
	h.limited++
	h.mu.Unlock()
}

func TestPostRelationshipsRateLimited(t *testing.T) {
	hooks := &rateHooks{}
	observability.SetServerHooks(hooks)
	defer observability.Reset()

	s, _ := newTestServer(t, Options{RateLimit: 0.001, Burst: 1})
	first := do(t, s.Handler(), http.MethodPost, "/api/relationships", strings.NewReader("a,b,1\n"))
	if first.Code != http.StatusOK {
		t.Fatalf("first status = %d", first.Code)
	}
	second := do(t, s.Handler(), http.MethodPost, "/api/relationships", strings.NewReader("a,b,1\n"))
	if second.Code != http.StatusTooManyRequests {
		t.Errorf("second status = %d", second.Code)
	}
	if second.Header().Get("Retry-After") == "" {
		t.Error("Retry-After missing")
	}
	if hooks.limited != 1 {
		t.Errorf("limited = %d", hooks.limited)
	}
	// Reads are never limited.
	if rec := do(t, s.Handler(), http.MethodGet, "/api/relationships", nil); rec.Code != http.StatusOK {
		t.Errorf("GET status = %d", rec.Code)
	}
}

func TestDiagramSVG(t *testing.T) {
	s, _ := newTestServer(t, Options{})
	rec := do(t, s.Handler(), http.MethodGet, "/api/diagram.svg?width=400&height=300&color_by=source", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), `viewBox="0 0 400 300"`) {
		t.Error("query size not applied")
	}
}

func TestDiagramBadQuery(t *testing.T) {
	s, _ := newTestServer(t, Options{})
	for _, target := range []string{
		"/api/diagram.svg?width=abc",
		"/api/diagram.svg?height=-4",
		"/api/diagram.svg?color_by=rainbow",
		"/api/diagram.png?scale=0",
		"/api/diagram.png?scale=0.5",
		"/api/diagram.png?scale=2.5",
		"/api/diagram.png?scale=4",
		"/api/diagram.png?dpr=x",
	} {
		if rec := do(t, s.Handler(), http.MethodGet, target, nil); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d", target, rec.Code)
		}
	}
}

func TestDiagramOversizedRejected(t *testing.T) {
	s, _ := newTestServer(t, Options{})
	for _, target := range []string{
		"/api/diagram.png?width=100000&height=100000",
		"/api/diagram.png?width=10001",
		"/api/diagram.svg?height=1e12",
		"/api/layout?width=20000",
		"/api/diagram.png?width=10000&height=10000&scale=3",
	} {
		rec := do(t, s.Handler(), http.MethodGet, target, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", target, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"error"`) {
			t.Errorf("%s: body = %s", target, rec.Body)
		}
	}
}

func TestDiagramPNG(t *testing.T) {
	s, _ := newTestServer(t, Options{})
	tests := []struct {
		query  string
		wantDx int
	}{
		{"?scale=1", 900},
		{"?dpr=1.5", 1800},
		{"?dpr=10", 2700},
		{"?width=300&height=200&scale=2", 600},
	}
	for _, tt := range tests {
		rec := do(t, s.Handler(), http.MethodGet, "/api/diagram.png"+tt.query, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status = %d: %s", tt.query, rec.Code, rec.Body)
		}
		if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
			t.Errorf("%s: Content-Disposition = %q", tt.query, cd)
		}
		img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
		if err != nil {
			t.Fatalf("%s: decode: %v", tt.query, err)
		}
		if got := img.Bounds().Dx(); got != tt.wantDx {
			t.Errorf("%s: width = %d, want %d", tt.query, got, tt.wantDx)
		}
	}
}

func TestLayoutJSON(t *testing.T) {
	s, _ := newTestServer(t, Options{})
	rec := do(t, s.Handler(), http.MethodGet, "/api/layout", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var out struct {
		Entities []struct {
			Label string `json:"label"`
		} `json:"entities"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Entities) != 4 || out.Entities[0].Label != "2 Finance" {
		t.Errorf("entities = %+v", out.Entities)
	}
}

func TestIndex(t *testing.T) {
	s, _ := newTestServer(t, Options{})
	rec := do(t, s.Handler(), http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "<svg") {
		t.Errorf("index = %d", rec.Code)
	}
}

func TestNotFound(t *testing.T) {
	s, _ := newTestServer(t, Options{})
	if rec := do(t, s.Handler(), http.MethodGet, "/api/nope", nil); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d", rec.Code)
	}
}

type failingStore struct{ dataset.MemoryStore }

func (*failingStore) Load(context.Context) (dataset.Snapshot, error) {
	return dataset.Snapshot{}, io.ErrUnexpectedEOF
}

func TestStoreFailureIs500(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	s := New(&failingStore{}, pipeline.NewRunner(nil, nil, logger), logger, Options{})
	rec := do(t, s.Handler(), http.MethodGet, "/api/diagram.svg", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "EOF") {
		t.Error("internal error details leaked")
	}
}

func TestServeShutdown(t *testing.T) {
	s, _ := newTestServer(t, Options{})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestNewLoggerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "serve.log")
	var stderr bytes.Buffer
	logger, closer := NewLogger(&stderr, path, log.InfoLevel)
	logger.Info("hello", "k", "v")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "hello") || !strings.Contains(stderr.String(), "hello") {
		t.Errorf("file = %q, stderr = %q", data, stderr.String())
	}

	_, closer = NewLogger(io.Discard, "", log.InfoLevel)
	if err := closer.Close(); err != nil {
		t.Error(err)
	}
}
