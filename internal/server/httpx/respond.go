package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

const (
	msgInternal        = "internal server error"
	msgInvalidPassword = "invalid password"
	msgUnauthorized    = "unauthorized"
)

// writeJSON writes JSON response with status code.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError sends an error message.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusFor maps a service error to the status code and the message the
// client may see. unauthorizedMsg differs between login and token checks.
func statusFor(err error, unauthorizedMsg string) (int, string) {
	var verr *common.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Detail
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest, "invalid request"
	case errors.Is(err, common.ErrConflict):
		return http.StatusBadRequest, "email already registered"
	case errors.Is(err, common.ErrNotFound):
		return http.StatusBadRequest, "user not found"
	case errors.Is(err, common.ErrUnauthorized):
		return http.StatusUnauthorized, unauthorizedMsg
	}
	return http.StatusInternalServerError, msgInternal
}

func (s *HTTPServer) writeServiceError(w http.ResponseWriter, req *http.Request, err error, unauthorizedMsg string) {
	status, msg := statusFor(err, unauthorizedMsg)
	if status == http.StatusInternalServerError {
		s.logger.Error(req.Context(), "request failed", "method", req.Method, "path", req.URL.Path, "error", err)
	}
	writeError(w, status, msg)
}
