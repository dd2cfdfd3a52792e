package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/clusproject/clus/internal/logger"
	clerr "github.com/clusproject/clus/pkg/cluster/errors"
)

// Response is the envelope every API endpoint answers with.
//
//   - Success reports whether the operation succeeded
//   - Data carries the payload on success (null otherwise)
//   - Error carries a human-readable message on failure (null otherwise)
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Error   *string     `json:"error"`
}

// OKResponse wraps a payload in a successful envelope.
func OKResponse(data interface{}) Response {
	return Response{Success: true, Data: data}
}

// ErrorResponse wraps an error message in a failed envelope.
func ErrorResponse(errMsg string) Response {
	return Response{Success: false, Error: &errMsg}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// The status line is already on the wire, so report it our side.
		logger.Error("failed to encode response",
			logger.KeyComponent, "api",
			logger.KeyStatusCode, status,
			logger.KeyError, err.Error())
	}
}

// writeError maps a binding error onto an HTTP status purely from its
// taxonomy code and writes the failed envelope.
func writeError(w http.ResponseWriter, err error) {
	JSON(w, statusFor(err), ErrorResponse(err.Error()))
}

// statusFor translates the error taxonomy into HTTP status codes. Anything
// that is not a ClusterError is an internal error.
func statusFor(err error) int {
	var cerr *clerr.ClusterError
	if !errors.As(err, &cerr) {
		return http.StatusInternalServerError
	}

	switch cerr.Code {
	case clerr.ErrObjectNotFound:
		return http.StatusNotFound
	case clerr.ErrSessionClosed, clerr.ErrConnectionFailed:
		return http.StatusServiceUnavailable
	case clerr.ErrUnsupportedPlatform:
		return http.StatusNotImplemented
	case clerr.ErrInvalidUTF16:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
