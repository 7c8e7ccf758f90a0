//go:build !llama

package manager

// This file provides a no-CGO stub for the llama loader. It is compiled when
// the 'llama' build tag is NOT set, keeping default builds and CI CGO-free.
// The real loader lives in adapter_llama.go (tagged 'llama').

// llamaBuilt indicates this binary was compiled with real llama support.
var llamaBuilt = false

type llamaLoader struct{}

// NewLlamaLoader returns a loader that refuses to load without the 'llama'
// build tag. This avoids any mocked behavior in production binaries.
func NewLlamaLoader() Loader { return llamaLoader{} }

func (llamaLoader) Load(modelPath string, opts LoadOptions) (Handle, error) {
	return nil, ErrDependencyUnavailable("llama support not built (missing 'llama' build tag)")
}
