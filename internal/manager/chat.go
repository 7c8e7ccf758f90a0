package manager

import (
	"context"
	"strings"
	"time"

	"chatd/pkg/types"
)

// logPreview bounds how much prompt/output text goes into debug logs.
const logPreview = 100

// Chat acquires the model, renders the conversation, waits for the single
// generation slot and runs one non-streaming completion. The returned content
// has surrounding whitespace trimmed.
func (m *Manager) Chat(ctx context.Context, req types.ChatRequest) (types.ChatResponse, error) {
	h, err := m.Model(ctx)
	if err != nil {
		return types.ChatResponse{}, err
	}
	if n := unknownRoles(req.Messages); n > 0 {
		m.log.Warn().Int("skipped", n).Msg("skipping messages with unknown roles")
	}
	prompt := BuildPrompt(req.Messages)
	m.log.Debug().Str("prompt", preview(prompt)).Msg("processing prompt")

	release, err := m.beginGeneration(ctx)
	if err != nil {
		return types.ChatResponse{}, err
	}
	defer release()

	start := time.Now()
	text, err := h.Generate(ctx, prompt, paramsFor(req))
	if err != nil {
		if ctx.Err() != nil {
			return types.ChatResponse{}, ctx.Err()
		}
		if KindOf(err) == KindUnknown {
			err = ErrGenerationFailure(err)
		}
		return types.ChatResponse{}, err
	}
	content := strings.TrimSpace(text)
	m.log.Debug().Str("content", preview(content)).Dur("dur", time.Since(start)).Msg("generated response")
	return types.ChatResponse{Content: content}, nil
}

// paramsFor applies request defaults and the template stop markers.
func paramsFor(req types.ChatRequest) GenerateParams {
	stop := req.Stop
	if len(stop) == 0 {
		stop = append([]string(nil), DefaultStop...)
	}
	return GenerateParams{
		MaxTokens:   req.MaxTokensOrDefault(),
		Temperature: float32(req.TemperatureOrDefault()),
		TopP:        float32(req.TopPOrDefault()),
		Stop:        stop,
	}
}

func preview(s string) string {
	r := []rune(s)
	if len(r) <= logPreview {
		return s
	}
	return string(r[:logPreview]) + "..."
}
