package manager

import (
	"time"

	"github.com/rs/zerolog"
)

// Defaults applied when corresponding ManagerConfig fields are unset.
const (
	defaultModelPath     = "/app/models/ursa_minor-q8_0.gguf"
	defaultContextSize   = 4096
	defaultThreads       = 4
	defaultBatchSize     = 512
	defaultMaxQueueDepth = 32
)

// ManagerConfig encapsulates all tunables for Manager construction.
type ManagerConfig struct {
	// ModelPath is a GGUF file, or a directory whose first *.gguf is used.
	ModelPath   string
	ContextSize int
	Threads     int
	BatchSize   int
	GPULayers   int
	// MaxQueueDepth bounds admitted generations (in-flight plus waiting).
	MaxQueueDepth int
	// MaxWait bounds how long an admitted request waits for the generation
	// slot. Zero waits until the request context is done.
	MaxWait time.Duration

	// Loader constructs the model handle. Nil selects the llama loader.
	Loader    Loader
	Publisher EventPublisher
	Logger    *zerolog.Logger
}

// NewWithConfig constructs a Manager from ManagerConfig.
func NewWithConfig(cfg ManagerConfig) *Manager {
	m := &Manager{
		modelPath: cfg.ModelPath,
		loader:    cfg.Loader,
		publisher: cfg.Publisher,
		maxWait:   cfg.MaxWait,
		loadCh:    make(chan struct{}, 1),
		genCh:     make(chan struct{}, 1),
		log:       zerolog.Nop(),
	}
	if m.modelPath == "" {
		m.modelPath = defaultModelPath
	}
	m.opts = LoadOptions{
		ContextSize: positiveOr(cfg.ContextSize, defaultContextSize),
		Threads:     positiveOr(cfg.Threads, defaultThreads),
		BatchSize:   positiveOr(cfg.BatchSize, defaultBatchSize),
		GPULayers:   cfg.GPULayers,
		MMap:        true,
	}
	if m.opts.GPULayers < 0 {
		m.opts.GPULayers = 0
	}
	m.queueCh = make(chan struct{}, positiveOr(cfg.MaxQueueDepth, defaultMaxQueueDepth))
	if m.maxWait < 0 {
		m.maxWait = 0
	}
	if m.loader == nil {
		m.loader = NewLlamaLoader()
	}
	if m.publisher == nil {
		m.publisher = noopPublisher{}
	}
	if cfg.Logger != nil {
		m.log = cfg.Logger.With().Str("component", "manager").Logger()
	}
	return m
}

func positiveOr(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
