//go:build llama

package manager

import (
	"context"
	"errors"
	"strings"

	llama "github.com/go-skynet/go-llama.cpp"
)

// llamaBuilt indicates this binary was compiled with real llama support.
var llamaBuilt = true

type llamaLoader struct{}

// NewLlamaLoader returns the in-process go-llama.cpp loader.
func NewLlamaLoader() Loader { return llamaLoader{} }

// llamaHandle owns the loaded model
type llamaHandle struct {
	model *llama.LLama
	opts  LoadOptions
}

func (llamaLoader) Load(modelPath string, opts LoadOptions) (Handle, error) {
	if strings.TrimSpace(modelPath) == "" {
		return nil, errors.New("model path is empty")
	}
	mo := []llama.ModelOption{
		llama.SetContext(opts.ContextSize),
		llama.SetNBatch(opts.BatchSize),
		llama.SetMMap(opts.MMap),
	}
	if opts.GPULayers > 0 {
		mo = append(mo, llama.SetGPULayers(opts.GPULayers))
	}
	m, err := llama.New(modelPath, mo...)
	if err != nil {
		return nil, err
	}
	return &llamaHandle{model: m, opts: opts}, nil
}

func (h *llamaHandle) Generate(ctx context.Context, prompt string, params GenerateParams) (string, error) {
	if h.model == nil {
		return "", errors.New("llama model not initialized")
	}
	// Stop at the next token once the request is canceled.
	h.model.SetTokenCallback(func(string) bool {
		select {
		case <-ctx.Done():
			return false
		default:
			return true
		}
	})
	defer h.model.SetTokenCallback(nil)

	text, err := h.model.Predict(prompt, predictOptions(params, h.opts)...)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", err
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	return text, nil
}

func (h *llamaHandle) Close() error {
	if h.model != nil {
		h.model.Free()
		h.model = nil
	}
	return nil
}

func zf(v, def float32) float32 {
	if v > 0 {
		return v
	}
	return def
}

// predictOptions converts GenerateParams into go-llama.cpp options. A zero
// MaxTokens is bounded by the context window.
func predictOptions(params GenerateParams, opts LoadOptions) []llama.PredictOption {
	tokens := params.MaxTokens
	if tokens <= 0 {
		tokens = opts.ContextSize
	}
	po := []llama.PredictOption{
		llama.SetTokens(tokens),
		llama.SetThreads(max(1, opts.Threads)),
		llama.SetBatch(max(1, opts.BatchSize)),
		llama.SetTopP(zf(params.TopP, llama.DefaultOptions.TopP)),
		llama.SetTemperature(params.Temperature),
	}
	if len(params.Stop) > 0 {
		po = append(po, llama.SetStopWords(params.Stop...))
	}
	return po
}
