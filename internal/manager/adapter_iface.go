package manager

import "context"

// Loader abstracts the model runtime used by the Manager.
// Concrete implementations (e.g., llama.cpp) should satisfy this interface.
type Loader interface {
	// Load constructs a ready-to-use handle for the model file at modelPath.
	Load(modelPath string, opts LoadOptions) (Handle, error)
}

// Handle is a loaded model together with its execution context.
type Handle interface {
	// Generate runs one synchronous, non-streaming completion for prompt.
	// Implementations must return promptly once ctx is canceled.
	Generate(ctx context.Context, prompt string, params GenerateParams) (string, error)
	// Close releases native resources. The Manager only calls it on shutdown.
	Close() error
}

// fallbackMaxBatch caps the batch size used by the fallback load attempt.
const fallbackMaxBatch = 128

// LoadOptions are fixed for the lifetime of a handle.
type LoadOptions struct {
	ContextSize int
	Threads     int
	BatchSize   int
	GPULayers   int
	MMap        bool
}

// Fallback returns the reduced options used when the primary load fails:
// no memory mapping, no GPU offload and a smaller prompt batch.
func (o LoadOptions) Fallback() LoadOptions {
	f := o
	f.MMap = false
	f.GPULayers = 0
	if f.BatchSize <= 0 || f.BatchSize > fallbackMaxBatch {
		f.BatchSize = fallbackMaxBatch
	}
	return f
}

// GenerateParams captures sampling parameters for one completion.
type GenerateParams struct {
	// MaxTokens of 0 means until a stop word or the context window is full.
	MaxTokens   int
	Temperature float32
	TopP        float32
	Stop        []string
}
