package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"chatd/internal/manager"
	"chatd/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// statusFor maps service errors to HTTP status codes. This is the only place
// manager error kinds meet transport codes.
func statusFor(err error) int {
	var he HTTPError
	if errors.As(err, &he) {
		return he.StatusCode()
	}
	switch manager.KindOf(err) {
	case manager.KindNotFound, manager.KindDependencyUnavailable:
		return http.StatusServiceUnavailable
	case manager.KindTooBusy:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// clientMessage is the error text returned to clients. A missing model file
// is reported by path only, without the underlying stat error.
func clientMessage(err error) string {
	var me *manager.Error
	if errors.As(err, &me) && me.Kind == manager.KindNotFound {
		return me.Msg
	}
	return err.Error()
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
