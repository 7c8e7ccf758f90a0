package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"chatd/internal/common/fsutil"
)

// Defaults returns the configuration used when nothing else is specified.
func Defaults() Config {
	return Config{
		ModelPath:     "/app/models/ursa_minor-q8_0.gguf",
		ContextSize:   4096,
		Threads:       4,
		BatchSize:     512,
		Host:          "0.0.0.0",
		Port:          8000,
		LogLevel:      "info",
		LogFormat:     "json",
		MaxQueueDepth: 32,
		MaxBodyBytes:  1 << 20,
		CORSOrigins:   []string{"*"},
	}
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment.
// Variables already set are not overridden. A missing file is not an error.
func LoadDotEnv(path string) error {
	p, err := fsutil.ExpandHome(path)
	if err != nil {
		return err
	}
	if p == "" || !fsutil.PathExists(p) {
		return nil
	}
	if err := godotenv.Load(p); err != nil {
		return fmt.Errorf("load %s: %w", p, err)
	}
	return nil
}

// FromEnv overlays environment variables onto c. lookup is usually os.LookupEnv.
func (c Config) FromEnv(lookup func(string) (string, bool)) (Config, error) {
	var errs []error
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	num := func(key string, dst *int) {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: invalid integer %q", key, v))
			return
		}
		*dst = n
	}

	str("MODEL_PATH", &c.ModelPath)
	num("N_CTX", &c.ContextSize)
	num("N_THREADS", &c.Threads)
	num("N_BATCH", &c.BatchSize)
	num("N_GPU_LAYERS", &c.GPULayers)
	str("HOST", &c.Host)
	num("PORT", &c.Port)
	str("CHATD_LOG_LEVEL", &c.LogLevel)
	str("CHATD_LOG_FORMAT", &c.LogFormat)
	num("CHATD_MAX_QUEUE_DEPTH", &c.MaxQueueDepth)

	if v, ok := lookup("CHATD_MAX_WAIT"); ok && strings.TrimSpace(v) != "" {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("CHATD_MAX_WAIT: invalid duration %q", v))
		} else {
			c.MaxWait = Duration(d)
		}
	}
	if v, ok := lookup("CHATD_MAX_BODY_BYTES"); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("CHATD_MAX_BODY_BYTES: invalid integer %q", v))
		} else {
			c.MaxBodyBytes = n
		}
	}
	if v, ok := lookup("CHATD_CORS_ORIGINS"); ok {
		c.CORSOrigins = SplitCSV(v)
	}
	return c, errors.Join(errs...)
}

// Validate rejects values the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.ModelPath) == "" {
		errs = append(errs, errors.New("model path is required"))
	}
	if c.ContextSize <= 0 {
		errs = append(errs, fmt.Errorf("n_ctx must be > 0, got %d", c.ContextSize))
	}
	if c.Threads <= 0 {
		errs = append(errs, fmt.Errorf("n_threads must be > 0, got %d", c.Threads))
	}
	if c.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("n_batch must be > 0, got %d", c.BatchSize))
	}
	if c.GPULayers < 0 {
		errs = append(errs, fmt.Errorf("n_gpu_layers must be >= 0, got %d", c.GPULayers))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port out of range: %d", c.Port))
	}
	if c.MaxQueueDepth <= 0 {
		errs = append(errs, fmt.Errorf("max_queue_depth must be > 0, got %d", c.MaxQueueDepth))
	}
	if c.MaxWait < 0 {
		errs = append(errs, fmt.Errorf("max_wait must be >= 0, got %s", c.MaxWait))
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log_format must be json or console, got %q", c.LogFormat))
	}
	return errors.Join(errs...)
}

// Addr is the listen address built from Host and Port.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// SplitCSV splits a comma-separated list, trimming blanks and dropping empties.
func SplitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
