package manager

import (
	"errors"
	"fmt"
)

// Kind classifies manager errors so the HTTP layer can map them to status codes.
type Kind int

const (
	KindUnknown Kind = iota
	// KindNotFound: the model artifact is missing or unreadable.
	KindNotFound
	// KindLoadFailure: the engine could not construct a handle.
	KindLoadFailure
	// KindGenerationFailure: the engine failed while generating.
	KindGenerationFailure
	// KindTooBusy: generation admission was refused (return 429).
	KindTooBusy
	// KindDependencyUnavailable: the binary has no inference runtime (return 503).
	KindDependencyUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindLoadFailure:
		return "load_failure"
	case KindGenerationFailure:
		return "generation_failure"
	case KindTooBusy:
		return "too_busy"
	case KindDependencyUnavailable:
		return "dependency_unavailable"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by Manager operations.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var me *Error
	if errors.As(err, &me) {
		return me.Kind
	}
	return KindUnknown
}

// ErrNotFound reports a missing or unreadable model file at path.
func ErrNotFound(path string, cause error) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf("model file not found: %s", path), Err: cause}
}

// ErrLoadFailure reports that the model at path could not be loaded.
func ErrLoadFailure(path string, cause error) error {
	return &Error{Kind: KindLoadFailure, Msg: fmt.Sprintf("failed to load model %s", path), Err: cause}
}

// ErrGenerationFailure wraps an engine error raised during generation.
func ErrGenerationFailure(cause error) error {
	return &Error{Kind: KindGenerationFailure, Msg: "model inference failed", Err: cause}
}

// ErrTooBusy signals queue overflow or wait timeout.
func ErrTooBusy(reason string) error {
	return &Error{Kind: KindTooBusy, Msg: "too busy: " + reason}
}

// ErrDependencyUnavailable signals a missing inference runtime so the HTTP
// layer can return 503 Service Unavailable instead of 500.
func ErrDependencyUnavailable(msg string) error {
	return &Error{Kind: KindDependencyUnavailable, Msg: msg}
}

// IsNotFound reports whether err indicates a missing model file.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsLoadFailure reports whether err indicates a failed model construction.
func IsLoadFailure(err error) bool { return KindOf(err) == KindLoadFailure }

// IsGenerationFailure reports whether err came from the generation call.
func IsGenerationFailure(err error) bool { return KindOf(err) == KindGenerationFailure }

// IsTooBusy reports whether err indicates backpressure (return 429).
func IsTooBusy(err error) bool { return KindOf(err) == KindTooBusy }

// IsDependencyUnavailable reports whether err indicates a missing runtime dependency.
func IsDependencyUnavailable(err error) bool { return KindOf(err) == KindDependencyUnavailable }
