package manager

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"chatd/pkg/types"
)

func TestNewWithConfigDefaults(t *testing.T) {
	m := NewWithConfig(ManagerConfig{Loader: &fakeLoader{}})
	want := LoadOptions{ContextSize: defaultContextSize, Threads: defaultThreads, BatchSize: defaultBatchSize, MMap: true}
	if diff := cmp.Diff(want, m.Options()); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	if m.ModelPath() != defaultModelPath {
		t.Fatalf("model path=%q", m.ModelPath())
	}
	if m.ModelName() != "ursa_minor-q8_0.gguf" {
		t.Fatalf("model name=%q", m.ModelName())
	}
	if _, _, c := m.QueueStats(); c != defaultMaxQueueDepth {
		t.Fatalf("queue capacity=%d", c)
	}
	if m.maxWait != 0 {
		t.Fatalf("expected unbounded wait by default, got %v", m.maxWait)
	}
}

func TestNewWithConfigNegativeValues(t *testing.T) {
	m := NewWithConfig(ManagerConfig{Loader: &fakeLoader{}, GPULayers: -1, MaxWait: -time.Second, Threads: -2})
	if m.opts.GPULayers != 0 || m.maxWait != 0 || m.opts.Threads != defaultThreads {
		t.Fatalf("unexpected normalization: opts=%+v wait=%v", m.opts, m.maxWait)
	}
}

func TestModelLoadsOnce(t *testing.T) {
	fl := &fakeLoader{}
	m, p := newTestManager(t, fl)
	if m.Ready() {
		t.Fatalf("expected not ready before first use")
	}
	h1, err := m.Model(testCtx(t))
	if err != nil {
		t.Fatalf("first Model: %v", err)
	}
	h2, err := m.Model(testCtx(t))
	if err != nil {
		t.Fatalf("second Model: %v", err)
	}
	if h1 != h2 {
		t.Fatalf("expected the same handle instance")
	}
	if n := fl.loadCalls(); n != 1 {
		t.Fatalf("expected 1 load, got %d", n)
	}
	if fl.paths[0] != p {
		t.Fatalf("loader got path %q, want %q", fl.paths[0], p)
	}
	if !m.Ready() || m.LoadedAt().IsZero() {
		t.Fatalf("expected ready with load time after load")
	}
}

func TestModelConcurrentFirstUseLoadsOnce(t *testing.T) {
	fl := &fakeLoader{delay: 20 * time.Millisecond}
	m, _ := newTestManager(t, fl)
	var wg sync.WaitGroup
	handles := make([]Handle, 8)
	for i := range handles {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h, err := m.Model(testCtx(t))
			if err != nil {
				t.Errorf("Model: %v", err)
			}
			handles[i] = h
		}(i)
	}
	wg.Wait()
	if n := fl.loadCalls(); n != 1 {
		t.Fatalf("expected 1 load, got %d", n)
	}
	for _, h := range handles {
		if h != handles[0] {
			t.Fatalf("callers received different handles")
		}
	}
}

func TestModelMissingFile(t *testing.T) {
	fl := &fakeLoader{}
	missing := filepath.Join(t.TempDir(), "absent.gguf")
	m := NewWithConfig(ManagerConfig{ModelPath: missing, Loader: fl})
	_, err := m.Model(testCtx(t))
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if !strings.Contains(err.Error(), missing) {
		t.Fatalf("error should name the path: %v", err)
	}
	if fl.loadCalls() != 0 {
		t.Fatalf("loader must not be called for a missing file")
	}
}

func TestModelFallbackLoad(t *testing.T) {
	fl := &fakeLoader{loadErrs: []error{errors.New("unknown architecture")}}
	m, _ := newTestManager(t, fl)
	pub := NewMemoryPublisher()
	m.SetEventPublisher(pub)
	if _, err := m.Model(testCtx(t)); err != nil {
		t.Fatalf("expected fallback to succeed: %v", err)
	}
	if len(fl.calls) != 2 {
		t.Fatalf("expected 2 load attempts, got %d", len(fl.calls))
	}
	if diff := cmp.Diff(m.Options().Fallback(), fl.calls[1]); diff != "" {
		t.Fatalf("fallback options mismatch (-want +got):\n%s", diff)
	}
	want := []string{EventLoadStart, EventLoadFallback, EventLoadReady}
	if diff := cmp.Diff(want, pub.Names()); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
	ready, ok := pub.Last(EventLoadReady)
	if !ok || ready.Fields["fallback"] != true {
		t.Fatalf("load_ready should report fallback: %+v", ready)
	}
}

func TestModelLoadFailureIsRetriedNextCall(t *testing.T) {
	first, second := errors.New("bad magic"), errors.New("out of memory")
	fl := &fakeLoader{loadErrs: []error{first, second}}
	m, _ := newTestManager(t, fl)
	_, err := m.Model(testCtx(t))
	if !IsLoadFailure(err) {
		t.Fatalf("expected load failure, got %v", err)
	}
	if !errors.Is(err, first) || !errors.Is(err, second) {
		t.Fatalf("expected both causes wrapped: %v", err)
	}
	if m.Ready() {
		t.Fatalf("failed load must leave the handle absent")
	}
	// Next call retries and now succeeds.
	if _, err := m.Model(testCtx(t)); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if n := fl.loadCalls(); n != 3 {
		t.Fatalf("expected 3 load attempts, got %d", n)
	}
}

func TestModelDependencyUnavailableSkipsFallback(t *testing.T) {
	fl := &fakeLoader{loadErrs: []error{ErrDependencyUnavailable("no runtime")}}
	m, _ := newTestManager(t, fl)
	_, err := m.Model(testCtx(t))
	if !IsDependencyUnavailable(err) {
		t.Fatalf("expected dependency unavailable, got %v", err)
	}
	if n := fl.loadCalls(); n != 1 {
		t.Fatalf("expected no fallback attempt, got %d loads", n)
	}
}

func TestModelCanceledWhileWaitingForLoad(t *testing.T) {
	fl := &fakeLoader{delay: 200 * time.Millisecond}
	m, _ := newTestManager(t, fl)
	go func() { _, _ = m.Model(context.Background()) }()
	time.Sleep(20 * time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := m.Model(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestCloseReleasesHandle(t *testing.T) {
	fl := &fakeLoader{}
	m, _ := newTestManager(t, fl)
	if err := m.Close(); err != nil {
		t.Fatalf("close before load: %v", err)
	}
	m2, _ := newTestManager(t, fl)
	if _, err := m2.Model(testCtx(t)); err != nil {
		t.Fatalf("Model: %v", err)
	}
	if err := m2.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !fl.handle.closed {
		t.Fatalf("expected handle closed")
	}
	if _, err := m2.Model(testCtx(t)); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed after Close, got %v", err)
	}
}

func TestModelDirectoryResolvesFirstGGUF(t *testing.T) {
	dir := t.TempDir()
	createModelFile(t, dir, "b.gguf", 1)
	a := createModelFile(t, dir, "a.gguf", 1)
	fl := &fakeLoader{}
	m := NewWithConfig(ManagerConfig{ModelPath: dir, Loader: fl})
	if _, err := m.Model(testCtx(t)); err != nil {
		t.Fatalf("Model: %v", err)
	}
	if fl.paths[0] != a {
		t.Fatalf("loaded %q, want %q", fl.paths[0], a)
	}
}

func TestCloseWaitsForInflightGeneration(t *testing.T) {
	h := &fakeHandle{text: "ok", block: make(chan struct{})}
	m, _ := newTestManager(t, &fakeLoader{handle: h})
	done := make(chan error, 1)
	go func() {
		_, err := m.Chat(context.Background(), types.ChatRequest{Messages: []types.Message{{Role: types.RoleUser, Content: "hi"}}})
		done <- err
	}()
	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, inflight, _ := m.QueueStats(); inflight == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("generation never started")
		}
		time.Sleep(time.Millisecond)
	}

	closed := make(chan struct{})
	go func() { _ = m.Close(); close(closed) }()
	select {
	case <-closed:
		t.Fatalf("Close returned while a generation was in flight")
	case <-time.After(30 * time.Millisecond):
	}
	close(h.block)
	if err := <-done; err != nil {
		t.Fatalf("chat: %v", err)
	}
	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatalf("Close did not return after generation finished")
	}
	if err := m.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
