package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"field-kart/internal/middleware"
	"field-kart/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// validate checks struct tags on request payloads.
var validate = validator.New()

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
// The request's correlation ID is echoed in the payload so field apps can
// report it.
func writeError(w http.ResponseWriter, r *http.Request, status int, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{
		Error:         http.StatusText(status),
		Message:       message,
		CorrelationID: middleware.CorrelationIDFrom(r.Context()),
	})
}

// writeDomainError maps service errors onto HTTP responses. Domain errors
// carry their own code; anything else is an internal error.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error, fallback string, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		status := http.StatusBadRequest
		switch domainErr.Code {
		case model.ErrCodeProductNotFound, model.ErrCodeVariantNotFound, model.ErrCodeSchemeNotFound:
			status = http.StatusUnprocessableEntity
		}
		logger.Warn().Str("code", domainErr.Code).Int("status", status).Msg("domain error")
		writeJSON(w, status, model.ErrorResponse{
			Error:         domainErr.Code,
			Message:       domainErr.Message,
			CorrelationID: middleware.CorrelationIDFrom(r.Context()),
		})
		return
	}

	writeError(w, r, http.StatusInternalServerError, fallback, logger)
}

// decodeAndValidate decodes the request body into dst and runs struct
// validation. It writes the error response itself and reports success.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}, logger zerolog.Logger) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{
			Error:         model.ErrCodeInvalidJSON,
			Message:       "invalid request body",
			CorrelationID: middleware.CorrelationIDFrom(r.Context()),
		})
		return false
	}

	if err := validate.Struct(dst); err != nil {
		logger.Warn().Err(err).Msg("request validation failed")
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{
			Error:         model.ErrCodeMissingField,
			Message:       err.Error(),
			CorrelationID: middleware.CorrelationIDFrom(r.Context()),
		})
		return false
	}

	return true
}
