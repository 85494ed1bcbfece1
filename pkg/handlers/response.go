package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"github.com/retinue-solutions/triage-engine/pkg/apperrors"
	"github.com/retinue-solutions/triage-engine/pkg/validation"
)

// maxJSONBodyBytes caps JSON request bodies.
const maxJSONBodyBytes = 1 << 20

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// errorStatus maps an error kind to its HTTP status and error code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, apperrors.ErrUnsupportedMedia):
		return http.StatusBadRequest, "unsupported_media"
	case errors.Is(err, apperrors.ErrAccessDenied):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, apperrors.ErrUpstream):
		return http.StatusInternalServerError, "upstream_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// writeServiceError writes the response for a service error. Client errors
// carry the error's own message; 500s carry fallback unless the error is an
// upstream failure with a user-facing message. Details are logged only.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, err error, fallback string) {
	status, code := errorStatus(err)

	message := fallback
	switch {
	case status < http.StatusInternalServerError:
		message = apperrors.Message(err, fallback)
		logger.Debug("Request rejected", zap.Int("status", status), zap.String("reason", message))
	case errors.Is(err, apperrors.ErrUpstream):
		message = apperrors.Message(err, fallback)
		logger.Error(fallback, zap.Error(err))
	default:
		logger.Error(fallback, zap.Error(err))
	}

	if err := ErrorResponse(w, status, code, message); err != nil {
		logger.Error("Failed to write error response", zap.Error(err))
	}
}

// writeResult writes data, logging encoding failures.
func writeResult(w http.ResponseWriter, logger *zap.Logger, status int, data interface{}) {
	if err := WriteJSON(w, status, data); err != nil {
		logger.Error("Failed to write response", zap.Error(err))
	}
}

// decodeBody reads a JSON body, checks it against schema and decodes it into
// dst. Any failure is an apperrors validation error.
func decodeBody(r *http.Request, schema *gojsonschema.Schema, dst interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxJSONBodyBytes+1))
	if err != nil {
		return apperrors.Validation("Failed to read request body")
	}
	if len(body) > maxJSONBodyBytes {
		return apperrors.Validation(fmt.Sprintf("Request body exceeds %d bytes", maxJSONBodyBytes))
	}

	if err := validation.Validate(schema, body); err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return apperrors.Validation("Invalid JSON body")
	}
	return nil
}
