package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/osse101/luckydraw/internal/domain"
	"github.com/osse101/luckydraw/internal/logger"
)

// Standard response types for consistent API responses

// ErrorResponse represents an error response. Code is a stable machine
// readable reason such as EVENT_QUOTA_EXHAUSTED.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// DataResponse represents a response with data payload
type DataResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// Encode buffers start at 512 bytes; history pages that grow one past
// maxPooledBuffer are left for the GC instead of pinning the memory.
const maxPooledBuffer = 64 << 10

var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 512))
	},
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	buf := bufferPool.Get().(*bytes.Buffer)
	defer func() {
		if buf.Cap() <= maxPooledBuffer {
			buf.Reset()
			bufferPool.Put(buf)
		}
	}()

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		// Headers are already sent
		slog.Error(LogMsgEncodeFailed, "error", err)
		return
	}

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error(LogMsgWriteFailed, "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message, code string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// User-facing error messages for service errors
const (
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgUnknownError       = "Unknown error"
	ErrMsgBusyError          = "The draw is busy. Please try again."
	ErrMsgInvalidInputError  = "Invalid request. Please check your inputs."
)

// mapServiceErrorToUserMessage maps domain errors to an HTTP status, a user
// facing message and a reason code.
//
// Eligibility rejections are 422 and carry the rejection text since it is
// meant for the participant. Missing entities are 404. Exhausted commit
// retries are 503.
func mapServiceErrorToUserMessage(err error) (int, string, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError, CodeInternal
	}

	code := domain.ReasonCode(err)
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidInputError, CodeInvalidInput
	case errors.Is(err, domain.ErrNotEligible):
		return http.StatusUnprocessableEntity, reasonMessage(err), code
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, reasonMessage(err), code
	case errors.Is(err, domain.ErrConcurrencyExhausted):
		return http.StatusServiceUnavailable, ErrMsgBusyError, code
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError, CodeInternal
}

// reasonMessage returns the sentinel text without the service's wrap context
func reasonMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil || next == domain.ErrNotEligible || next == domain.ErrNotFound {
			return err.Error()
		}
		err = next
	}
}

// respondServiceError logs a failed service call and writes the mapped response
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	status, msg, code := mapServiceErrorToUserMessage(err)

	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		log.Error(LogMsgRequestFailed, "operation", opName, "error", err)
	} else {
		log.Info(LogMsgRequestRejected, "operation", opName, "code", code, "error", err)
	}

	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", RetryAfterSeconds)
	}
	respondError(w, status, msg, code)
}
