package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tickclear/tickclear/internal/domain"
)

// WriteJSON writes a JSON response with the given status code and data.
// Sets Content-Type to application/json before writing the status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data) // Write error intentionally ignored in response helper
}

// errorResponse is the standard error response format.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteError writes a standard error response with the given status code,
// error code, and human-readable message.
func WriteError(w http.ResponseWriter, status int, errorCode, message string) {
	WriteJSON(w, status, errorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// domainStatus maps a sentinel from the domain taxonomy to its HTTP
// status code and error code string.
func domainStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest, domain.ErrInvalidArgument.Error()
	case errors.Is(err, domain.ErrDuplicateID):
		return http.StatusConflict, domain.ErrDuplicateID.Error()
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, domain.ErrNotFound.Error()
	case errors.Is(err, domain.ErrNotImplemented):
		return http.StatusNotImplemented, domain.ErrNotImplemented.Error()
	case errors.Is(err, domain.ErrOverflow):
		return http.StatusUnprocessableEntity, domain.ErrOverflow.Error()
	case errors.Is(err, domain.ErrInsufficient):
		return http.StatusUnprocessableEntity, domain.ErrInsufficient.Error()
	}
	return http.StatusInternalServerError, domain.ErrInternal.Error()
}

// WriteDomainError maps a sentinel from the domain taxonomy to an HTTP
// status code and writes the standard error response.
func WriteDomainError(w http.ResponseWriter, err error) {
	status, code := domainStatus(err)
	WriteError(w, status, code, err.Error())
}

// ParseJSON decodes the request body as JSON into v.
// It validates that the Content-Type header is application/json and
// returns an error for missing/incorrect content type or malformed JSON.
func ParseJSON(r *http.Request, v any) error {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(ct, "application/json") {
		return fmt.Errorf("Request body must be valid JSON with Content-Type: application/json")
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("Request body must be valid JSON with Content-Type: application/json")
	}

	return nil
}
