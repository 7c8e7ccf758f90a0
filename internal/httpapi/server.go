package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"chatd/internal/manager"
	"chatd/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	ModelName() string
	Chat(ctx context.Context, req types.ChatRequest) (types.ChatResponse, error)
	Health() (types.HealthResponse, error)
	Ready() bool
}

type server struct {
	svc  Service
	log  zerolog.Logger
	opts Options
}

// NewMux builds the router serving /, /chat, /health, /readyz and /metrics.
func NewMux(svc Service, opts Options) http.Handler {
	s := &server{svc: svc, log: opts.logger(), opts: opts}

	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, access log, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	if opts.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.CORS.AllowedOrigins,
			AllowedMethods:   opts.CORS.AllowedMethods,
			AllowedHeaders:   opts.CORS.AllowedHeaders,
			AllowCredentials: opts.CORS.AllowCredentials,
			MaxAge:           300,
		}))
	}
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/", s.handleRoot)
	r.Post("/chat", s.handleChat)
	r.Get("/health", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	MountSwagger(r)
	return r
}

// handleRoot godoc
// @Summary  Service banner
// @Produce  json
// @Success  200 {object} types.RootResponse
// @Router   / [get]
func (s *server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.RootResponse{Status: "online", Model: s.svc.ModelName()})
}

// handleChat godoc
// @Summary  Chat completion
// @Accept   json
// @Produce  json
// @Param    request body types.ChatRequest true "conversation"
// @Success  200 {object} types.ChatResponse
// @Failure  400 {object} types.ErrorResponse
// @Failure  422 {object} types.ErrorResponse
// @Failure  429 {object} types.ErrorResponse
// @Failure  500 {object} types.ErrorResponse
// @Failure  503 {object} types.ErrorResponse
// @Router   /chat [post]
func (s *server) handleChat(w http.ResponseWriter, r *http.Request) {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil || mt != "application/json" {
			writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
			return
		}
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.maxBodyBytes())
	var req types.ChatRequest
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&req); err != nil {
		var te *json.UnmarshalTypeError
		var se *types.SchemaError
		switch {
		case errors.As(err, &te):
			writeJSONError(w, http.StatusUnprocessableEntity, fmt.Sprintf("invalid type for field %q", te.Field))
		case errors.As(err, &se):
			writeJSONError(w, http.StatusUnprocessableEntity, se.Error())
		default:
			// Oversized bodies also land here; still return 400 to avoid size leak details
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		}
		return
	}
	// Exactly one JSON value per body.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := validateChatRequest(req); err != nil {
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	rid := middleware.GetReqID(r.Context())
	start := time.Now()
	s.log.Info().Str("request_id", rid).Int("messages", len(req.Messages)).Msg("chat start")
	resp, err := s.svc.Chat(r.Context(), req)
	if err != nil {
		// Client went away or server is shutting down; nothing to write.
		if r.Context().Err() != nil {
			observeChat("canceled")
			s.log.Info().Str("request_id", rid).Dur("dur", time.Since(start)).Msg("chat canceled")
			return
		}
		status := statusFor(err)
		if status == http.StatusTooManyRequests {
			IncrementBackpressure("generation_queue")
		}
		observeChat(manager.KindOf(err).String())
		s.log.Error().Str("request_id", rid).Int("status", status).Dur("dur", time.Since(start)).Err(err).Msg("chat failed")
		writeJSONError(w, status, clientMessage(err))
		return
	}
	observeChat("ok")
	s.log.Info().Str("request_id", rid).Int("status", http.StatusOK).Dur("dur", time.Since(start)).Msg("chat end")
	writeJSON(w, http.StatusOK, resp)
}

// handleHealth godoc
// @Summary  Model file presence check (never loads the model)
// @Produce  json
// @Success  200 {object} types.HealthResponse
// @Failure  503 {object} types.ErrorResponse
// @Router   /health [get]
func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp, err := s.svc.Health()
	if err != nil {
		s.log.Error().Err(err).Msg("health check failed")
		writeJSONError(w, statusFor(err), "health check failed: "+clientMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.svc.Ready() {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
		return
	}
	w.WriteHeader(http.StatusServiceUnavailable)
	_, _ = w.Write([]byte("loading"))
}

// validateChatRequest enforces the request schema before business logic runs.
func validateChatRequest(req types.ChatRequest) error {
	if req.Messages == nil {
		return errors.New("messages is required")
	}
	if req.MaxTokens != nil && *req.MaxTokens < 0 {
		return errors.New("max_tokens must be >= 0")
	}
	if req.Temperature != nil && *req.Temperature < 0 {
		return errors.New("temperature must be >= 0")
	}
	if req.TopP != nil && (*req.TopP < 0 || *req.TopP > 1) {
		return errors.New("top_p must be between 0 and 1")
	}
	return nil
}
