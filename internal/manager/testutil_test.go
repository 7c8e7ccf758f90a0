package manager

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// createModelFile creates a file of approximately sizeMB megabytes and returns its path.
func createModelFile(t *testing.T, dir, name string, sizeMB int) string {
	t.Helper()
	if sizeMB <= 0 {
		sizeMB = 1
	}
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, make([]byte, sizeMB*1024*1024), 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}
	return p
}

// fakeLoader is a lightweight in-memory loader used for tests. loadErrs is
// consumed one entry per Load call; a nil entry (or an exhausted slice) succeeds.
type fakeLoader struct {
	mu       sync.Mutex
	loadErrs []error
	calls    []LoadOptions
	paths    []string
	delay    time.Duration
	handle   *fakeHandle
}

func (f *fakeLoader) Load(modelPath string, opts LoadOptions) (Handle, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, opts)
	f.paths = append(f.paths, modelPath)
	if len(f.loadErrs) > 0 {
		err := f.loadErrs[0]
		f.loadErrs = f.loadErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	if f.handle == nil {
		f.handle = &fakeHandle{}
	}
	return f.handle, nil
}

func (f *fakeLoader) loadCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fakeHandle returns text (or genErr) and records what it was called with.
// When block is non-nil Generate waits on it or on ctx.
type fakeHandle struct {
	mu      sync.Mutex
	text    string
	genErr  error
	block   chan struct{}
	prompts []string
	params  []GenerateParams
	closed  bool
}

func (h *fakeHandle) Generate(ctx context.Context, prompt string, params GenerateParams) (string, error) {
	h.mu.Lock()
	h.prompts = append(h.prompts, prompt)
	h.params = append(h.params, params)
	block := h.block
	h.mu.Unlock()
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if h.genErr != nil {
		return "", h.genErr
	}
	return h.text, nil
}

func (h *fakeHandle) Close() error {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()
	return nil
}

func (h *fakeHandle) lastParams() GenerateParams {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.params) == 0 {
		return GenerateParams{}
	}
	return h.params[len(h.params)-1]
}

// testCtx returns a context with a short timeout, canceled on test cleanup.
func testCtx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return c
}

func newTestManager(t *testing.T, loader Loader) (*Manager, string) {
	t.Helper()
	p := createModelFile(t, t.TempDir(), "model.gguf", 1)
	return NewWithConfig(ManagerConfig{ModelPath: p, Loader: loader}), p
}
