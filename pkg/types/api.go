package types

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Known reports whether r is one of the roles the prompt template renders.
func (r Role) Known() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Message is a single turn of a conversation.
type Message struct {
	// Author of the message: system, user or assistant.
	// example: user
	Role Role `json:"role" example:"user"`
	// Message text.
	// example: Hello
	Content string `json:"content" example:"Hello"`
}

// Defaults applied when the corresponding ChatRequest field is omitted.
const (
	DefaultMaxTokens   = 1024
	DefaultTemperature = 0.7
	DefaultTopP        = 0.95
)

// ChatRequest is the payload accepted by POST /chat.
type ChatRequest struct {
	// Ordered conversation, oldest first.
	Messages []Message `json:"messages"`
	// Maximum number of new tokens to generate. 0 means until a stop
	// sequence or the context window is exhausted.
	// example: 1024
	MaxTokens *int `json:"max_tokens,omitempty" example:"1024"`
	// Sampling temperature (higher = more random).
	// example: 0.7
	Temperature *float64 `json:"temperature,omitempty" example:"0.7"`
	// Nucleus sampling probability.
	// example: 0.95
	TopP *float64 `json:"top_p,omitempty" example:"0.95"`
	// Optional stop sequences. When empty the server uses the chat template markers.
	// example: ["<|im_end|>"]
	Stop []string `json:"stop,omitempty" example:"<|im_end|>"`
}

// MaxTokensOrDefault returns max_tokens, or DefaultMaxTokens when omitted.
func (r ChatRequest) MaxTokensOrDefault() int {
	if r.MaxTokens == nil {
		return DefaultMaxTokens
	}
	return *r.MaxTokens
}

// TemperatureOrDefault returns temperature, or DefaultTemperature when omitted.
func (r ChatRequest) TemperatureOrDefault() float64 {
	if r.Temperature == nil {
		return DefaultTemperature
	}
	return *r.Temperature
}

// TopPOrDefault returns top_p, or DefaultTopP when omitted.
func (r ChatRequest) TopPOrDefault() float64 {
	if r.TopP == nil {
		return DefaultTopP
	}
	return *r.TopP
}

// ChatResponse is returned by POST /chat on success.
type ChatResponse struct {
	// Generated assistant text with surrounding whitespace trimmed.
	// example: Hi there!
	Content string `json:"content" example:"Hi there!"`
}

// RootResponse is returned by GET /.
type RootResponse struct {
	// example: online
	Status string `json:"status" example:"online"`
	// Base name of the configured model file.
	// example: ursa_minor-q8_0.gguf
	Model string `json:"model" example:"ursa_minor-q8_0.gguf"`
}

// HealthResponse is returned by GET /health when the model file is present.
type HealthResponse struct {
	// example: healthy
	Status string `json:"status" example:"healthy"`
	// Resolved path of the model file.
	// example: /app/models/ursa_minor-q8_0.gguf
	ModelPath string `json:"model_path" example:"/app/models/ursa_minor-q8_0.gguf"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}
