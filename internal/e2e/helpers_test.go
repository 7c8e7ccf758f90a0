package e2e

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"chatd/internal/httpapi"
	"chatd/internal/manager"
)

// scriptedLoader hands out a single scriptedHandle and counts loads.
type scriptedLoader struct {
	mu     sync.Mutex
	loads  int
	handle *scriptedHandle
}

func (l *scriptedLoader) Load(modelPath string, opts manager.LoadOptions) (manager.Handle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loads++
	return l.handle, nil
}

func (l *scriptedLoader) loadCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loads
}

// scriptedHandle returns reply for every prompt. When gate is non-nil each
// generation first signals started and then waits on gate.
type scriptedHandle struct {
	reply   string
	gate    chan struct{}
	started chan struct{}

	mu      sync.Mutex
	prompts []string
	stops   [][]string
}

func (h *scriptedHandle) Generate(ctx context.Context, prompt string, params manager.GenerateParams) (string, error) {
	h.mu.Lock()
	h.prompts = append(h.prompts, prompt)
	h.stops = append(h.stops, params.Stop)
	h.mu.Unlock()
	if h.gate != nil {
		if h.started != nil {
			h.started <- struct{}{}
		}
		select {
		case <-h.gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return h.reply, nil
}

func (h *scriptedHandle) Close() error { return nil }

// createModelFile writes an empty model file and returns its path.
func createModelFile(t *testing.T, name string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(""), 0o644); err != nil {
		t.Fatalf("write temp model %s: %v", p, err)
	}
	return p
}

func newServer(t *testing.T, cfg manager.ManagerConfig) (*httptest.Server, *manager.Manager) {
	t.Helper()
	mgr := manager.NewWithConfig(cfg)
	srv := httptest.NewServer(httpapi.NewMux(mgr, httpapi.Options{CORS: httpapi.DefaultCORSOptions()}))
	t.Cleanup(srv.Close)
	return srv, mgr
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func httpPostJSON(t *testing.T, url string, payload []byte) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}
