package manager

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"chatd/internal/common/fsutil"
)

// Manager owns the single model handle of the process. The handle is loaded
// lazily on first use, at most once; a failed load is not cached so the next
// caller retries.
type Manager struct {
	log       zerolog.Logger
	loader    Loader
	publisher EventPublisher
	modelPath string
	opts      LoadOptions

	// loadCh is a size-1 semaphore serializing handle construction.
	loadCh chan struct{}

	mu       sync.RWMutex
	handle   Handle
	loadedAt time.Time
	closed   bool

	// Queueing primitives
	genCh   chan struct{} // size 1: single in-flight generation
	queueCh chan struct{} // buffered: admitted requests
	maxWait time.Duration
}

// ErrClosed is returned by Model after Close.
var ErrClosed = errors.New("manager: closed")

// New builds a Manager for modelPath with package defaults.
func New(modelPath string, loader Loader) *Manager {
	return NewWithConfig(ManagerConfig{ModelPath: modelPath, Loader: loader})
}

// SetEventPublisher replaces the lifecycle event sink. Nil restores the no-op publisher.
func (m *Manager) SetEventPublisher(p EventPublisher) {
	if p == nil {
		p = noopPublisher{}
	}
	m.publisher = p
}

// ModelPath returns the configured (unresolved) model path.
func (m *Manager) ModelPath() string { return m.modelPath }

// ModelName returns the base name of the configured model path.
func (m *Manager) ModelName() string { return filepath.Base(m.modelPath) }

// Options returns the load options used for the primary load attempt.
func (m *Manager) Options() LoadOptions { return m.opts }

// Ready reports whether the handle has been loaded. It never triggers a load.
func (m *Manager) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.handle != nil
}

// LoadedAt returns when the handle was loaded, or the zero time.
func (m *Manager) LoadedAt() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loadedAt
}

func (m *Manager) current() (Handle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	return m.handle, nil
}

// Model returns the shared handle, loading it on first use. Concurrent first
// callers wait for a single load and share its result.
func (m *Manager) Model(ctx context.Context) (Handle, error) {
	if h, err := m.current(); h != nil || err != nil {
		return h, err
	}
	select {
	case m.loadCh <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-m.loadCh }()
	// Another caller may have finished loading while we waited.
	if h, err := m.current(); h != nil || err != nil {
		return h, err
	}
	h, err := m.load()
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		_ = h.Close()
		return nil, ErrClosed
	}
	m.handle = h
	m.loadedAt = time.Now()
	m.mu.Unlock()
	return h, nil
}

// resolveModelPath maps the configured path to an existing model file.
func (m *Manager) resolveModelPath() (string, error) {
	p, err := fsutil.ResolveModelFile(m.modelPath)
	if err != nil {
		return "", ErrNotFound(m.modelPath, err)
	}
	return p, nil
}

func (m *Manager) load() (Handle, error) {
	start := time.Now()
	m.emit(EventLoadStart, map[string]any{"model_path": m.modelPath})
	path, err := m.resolveModelPath()
	if err != nil {
		m.log.Error().Err(err).Str("model_path", m.modelPath).Msg("model file does not exist")
		m.emit(EventLoadFail, map[string]any{"error": err.Error()})
		return nil, err
	}
	sizeMB, _ := fsutil.FileSizeMB(path)
	m.log.Info().
		Str("model_path", path).
		Str("size_mb", fmt.Sprintf("%.2f", sizeMB)).
		Int("n_ctx", m.opts.ContextSize).
		Int("n_threads", m.opts.Threads).
		Int("n_batch", m.opts.BatchSize).
		Int("n_gpu_layers", m.opts.GPULayers).
		Msg("loading model")

	h, err := m.loader.Load(path, m.opts)
	if err == nil {
		m.loaded(path, start, false)
		return h, nil
	}
	if IsDependencyUnavailable(err) {
		m.log.Error().Err(err).Msg("inference runtime unavailable")
		m.emit(EventLoadFail, map[string]any{"error": err.Error()})
		return nil, err
	}

	fb := m.opts.Fallback()
	m.log.Warn().Err(err).
		Bool("mmap", fb.MMap).
		Int("n_batch", fb.BatchSize).
		Msg("primary load failed, trying fallback options")
	m.emit(EventLoadFallback, map[string]any{"error": err.Error()})
	h, ferr := m.loader.Load(path, fb)
	if ferr != nil {
		lerr := ErrLoadFailure(path, errors.Join(err, ferr))
		m.log.Error().Err(lerr).Dur("dur", time.Since(start)).Msg("model load failed")
		m.emit(EventLoadFail, map[string]any{"error": lerr.Error()})
		return nil, lerr
	}
	m.loaded(path, start, true)
	return h, nil
}

func (m *Manager) loaded(path string, start time.Time, fallback bool) {
	dur := time.Since(start)
	m.log.Info().Str("model_path", path).Bool("fallback", fallback).Dur("dur", dur).Msg("model loaded")
	m.emit(EventLoadReady, map[string]any{
		"model_path": path,
		"fallback":   fallback,
		"dur_ms":     int(dur / time.Millisecond),
	})
}

// Close frees the handle, if any. It waits for the in-flight generation to
// return, so cancel request contexts first. Call it once the HTTP server has
// stopped; the Manager must not be used afterwards.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	// Take the generation slot and keep it.
	m.genCh <- struct{}{}

	m.mu.Lock()
	h := m.handle
	m.handle = nil
	m.mu.Unlock()
	if h == nil {
		return nil
	}
	return h.Close()
}

// RuntimeAvailable reports whether this binary was built with the llama runtime.
func RuntimeAvailable() bool { return llamaBuilt }
