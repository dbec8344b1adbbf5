// Package httputil centralizes JSON encoding and domain-error translation so
// handlers stay thin and error envelopes stay consistent.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	dErrors "veritas/pkg/domain-errors"
)

// maxBodyBytes bounds request bodies decoded through DecodeAndPrepare.
const maxBodyBytes = 1 << 20

// errorResponse is the JSON error envelope shared by every endpoint.
type errorResponse struct {
	Error            string              `json:"error"`
	ErrorDescription string              `json:"error_description,omitempty"`
	Violations       []dErrors.Violation `json:"violations,omitempty"`
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into the HTTP envelope.
// Internal errors omit the description; operators correlate via request id.
func WriteError(w http.ResponseWriter, err error) {
	de, ok := dErrors.Load(err)
	if !ok {
		WriteJSON(w, http.StatusInternalServerError, errorResponse{Error: string(dErrors.CodeInternal)})
		return
	}

	resp := errorResponse{Error: string(de.Code)}
	switch de.Code {
	case dErrors.CodeInternal:
		// Suppressed: internals are logged, not leaked.
	case dErrors.CodeValidation:
		resp.ErrorDescription = de.Message
		resp.Violations = de.Violations
	default:
		resp.ErrorDescription = de.Message
	}
	WriteJSON(w, ToHTTPStatus(de.Code), resp)
}

// ToHTTPStatus maps a domain error code to its HTTP status.
func ToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeValidation:
		return http.StatusUnprocessableEntity
	case dErrors.CodeInvalidInput, dErrors.CodeBadRequest:
		return http.StatusBadRequest
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeForbidden:
		return http.StatusForbidden
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict, dErrors.CodeInvariantViolation:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Validatable is implemented by request types that parse and validate
// themselves after JSON decoding.
type Validatable interface {
	Validate() error
}

// DecodeAndPrepare decodes the request body into T and runs its validation.
// On failure it writes the error response and returns ok=false so the handler
// can return immediately.
func DecodeAndPrepare[T any, PT interface {
	*T
	Validatable
}](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (PT, bool) {
	var req T
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		if logger != nil {
			logger.WarnContext(ctx, "failed to decode request body",
				"request_id", requestID,
				"error", err,
			)
		}
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "request body is not valid JSON"))
		return nil, false
	}
	ptr := PT(&req)
	if err := ptr.Validate(); err != nil {
		WriteError(w, err)
		return nil, false
	}
	return ptr, true
}
