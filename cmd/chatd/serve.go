package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"chatd/internal/config"
	"chatd/internal/httpapi"
	"chatd/internal/manager"
)

const shutdownTimeout = 5 * time.Second

func newManager(cfg config.Config, log zerolog.Logger) *manager.Manager {
	return manager.NewWithConfig(manager.ManagerConfig{
		ModelPath:     cfg.ModelPath,
		ContextSize:   cfg.ContextSize,
		Threads:       cfg.Threads,
		BatchSize:     cfg.BatchSize,
		GPULayers:     cfg.GPULayers,
		MaxQueueDepth: cfg.MaxQueueDepth,
		MaxWait:       cfg.MaxWait.Std(),
		Publisher:     manager.NewLogPublisher(log),
		Logger:        &log,
	})
}

func httpOptions(cfg config.Config, log zerolog.Logger) httpapi.Options {
	opts := httpapi.Options{MaxBodyBytes: cfg.MaxBodyBytes, Logger: &log}
	if len(cfg.CORSOrigins) > 0 {
		opts.CORS = httpapi.DefaultCORSOptions()
		opts.CORS.AllowedOrigins = cfg.CORSOrigins
	}
	return opts
}

// serve runs the HTTP server until ctx is done, then shuts down gracefully and
// frees the model handle.
func serve(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	httpapi.SetLogger(log)
	mgr := newManager(cfg, log)
	if !manager.RuntimeAvailable() {
		log.Warn().Msg("built without llama support; /chat will answer 503 (rebuild with -tags=llama)")
	}

	// Request contexts derive from baseCtx so shutdown can abort generations.
	baseCtx, cancelRequests := context.WithCancel(context.Background())
	defer cancelRequests()
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           httpapi.NewMux(mgr, httpOptions(cfg, log)),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("model_path", cfg.ModelPath).
			Int("n_ctx", cfg.ContextSize).
			Int("n_threads", cfg.Threads).
			Int("n_batch", cfg.BatchSize).
			Msg("chatd listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		_ = mgr.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown incomplete; aborting in-flight requests")
	}
	cancelRequests()
	if err := mgr.Close(); err != nil {
		log.Error().Err(err).Msg("failed to free model")
		return err
	}
	log.Info().Msg("shutdown complete")
	return nil
}
