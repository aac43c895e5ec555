package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/uniflow-app/uniflow-api/internal/domain"
	"github.com/uniflow-app/uniflow-api/internal/genai"
	"github.com/uniflow-app/uniflow-api/internal/service"
)

var validate = validator.New()

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// decodeAndValidate parses the request body into target and runs struct
// validation. It writes the error response itself and reports success.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, target interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := validate.Struct(target); err != nil {
		respondValidationError(w, err)
		return false
	}
	return true
}

// respondValidationError sends a standardized validation error response with specific field messages
func respondValidationError(w http.ResponseWriter, err error) {
	errors := make(map[string]string)
	if ve, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range ve {
			fieldName := toJSONFieldName(fe.Field())
			errors[fieldName] = formatValidationError(fe)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(domain.APIError{
		Type:   domain.ErrorTypeValidation,
		Title:  "Validation Error",
		Status: http.StatusBadRequest,
		Detail: "One or more fields failed validation",
		Errors: errors,
	})
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", toJSONFieldName(fe.Field()))
	case "email":
		return "Must be a valid email address"
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "uuid":
		return "Must be a valid UUID"
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	default:
		return domain.GetValidationMessage(fe.Tag())
	}
}

// toJSONFieldName converts a Go struct field name to its JSON equivalent (camelCase)
func toJSONFieldName(field string) string {
	if len(field) == 0 {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// respondWithError sends a standardized JSON error response
func respondWithError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(domain.APIError{
		Type:   getErrorType(status),
		Title:  http.StatusText(status),
		Status: status,
		Detail: message,
	})
}

// respondServiceError maps service and generation errors onto HTTP
// statuses. Unrecognized errors become opaque 500s.
func respondServiceError(w http.ResponseWriter, err error) {
	var genErr *genai.GenerationError

	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrUserNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrPermissionDenied):
		respondWithError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrUnauthorized), errors.Is(err, service.ErrInvalidCredentials):
		respondWithError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrNoContent),
		errors.Is(err, service.ErrAlreadyPublished),
		errors.Is(err, service.ErrNoOrganizationNIF),
		errors.Is(err, service.ErrUnsupportedFileType):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrConflict):
		respondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrGenerationUnavailable):
		respondWithError(w, http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &genErr):
		if genErr.Reason == genai.ReasonQuota {
			respondWithError(w, http.StatusTooManyRequests, genErr.Error())
		} else {
			respondWithError(w, http.StatusInternalServerError, genErr.Error())
		}
	default:
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// getErrorType returns the appropriate error type for an HTTP status code
func getErrorType(status int) string {
	switch status {
	case http.StatusBadRequest:
		return domain.ErrorTypeBadRequest
	case http.StatusUnauthorized:
		return domain.ErrorTypeUnauthorized
	case http.StatusForbidden:
		return domain.ErrorTypeForbidden
	case http.StatusNotFound:
		return domain.ErrorTypeNotFound
	case http.StatusConflict:
		return domain.ErrorTypeConflict
	case http.StatusTooManyRequests:
		return domain.ErrorTypeRateLimited
	case http.StatusServiceUnavailable:
		return domain.ErrorTypeServiceUnavailable
	default:
		return domain.ErrorTypeInternal
	}
}
