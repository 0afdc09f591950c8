package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	apperrors "github.com/louisbranch/arbor.space/internal/platform/errors"
)

// envelope is the uniform response body shape: data on success, error on failure.
type envelope struct {
	Data  any        `json:"data,omitempty"`
	Error *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteJSON writes a success envelope with normalized headers and status.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Data: payload})
}

// WriteError writes an error envelope derived from the error's kind.
//
// Unclassified errors are logged and surfaced as a generic internal error so
// storage details never leak to clients.
func WriteError(w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatus(err)
	kind := apperrors.KindOf(err)
	message := "internal error"
	var appErr apperrors.Error
	if errors.As(err, &appErr) && status < http.StatusInternalServerError {
		message = appErr.Message
	}
	if status >= http.StatusInternalServerError {
		log.Printf("request failed status=%d err=%v", status, err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Error: &errorBody{Code: string(kind), Message: message}})
}

// DecodeJSON decodes a request body into target, classifying malformed input.
func DecodeJSON(r *http.Request, target any) error {
	if r == nil || r.Body == nil {
		return apperrors.E(apperrors.KindInvalidInput, "request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.E(apperrors.KindInvalidInput, "request body is required")
		}
		return apperrors.E(apperrors.KindInvalidInput, "invalid json body")
	}
	return nil
}
