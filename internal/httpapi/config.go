package httpapi

import (
	"github.com/rs/zerolog"
)

// defaultMaxBodyBytes is the request body limit for JSON endpoints (1 MiB).
const defaultMaxBodyBytes int64 = 1 << 20

// Options configures the HTTP layer.
type Options struct {
	// MaxBodyBytes limits request bodies; non-positive selects 1 MiB.
	MaxBodyBytes int64
	CORS         CORSOptions
	// Logger for access and chat logs. Nil falls back to the logger
	// installed with SetLogger, then to a disabled logger.
	Logger *zerolog.Logger
}

// CORSOptions configures the CORS middleware (opt-in). If disabled, no CORS
// middleware is added.
type CORSOptions struct {
	Enabled          bool
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
}

// DefaultCORSOptions allows every origin, method and header.
func DefaultCORSOptions() CORSOptions {
	return CORSOptions{
		Enabled:          true,
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}
}

func (o Options) maxBodyBytes() int64 {
	if o.MaxBodyBytes <= 0 {
		return defaultMaxBodyBytes
	}
	return o.MaxBodyBytes
}

func (o Options) logger() zerolog.Logger {
	if o.Logger != nil {
		return *o.Logger
	}
	if zlog != nil {
		return *zlog
	}
	return zerolog.Nop()
}
