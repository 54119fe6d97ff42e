package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) handleSignup(w http.ResponseWriter, req *http.Request) {
	payload, ok := decodeCredentials(w, req)
	if !ok {
		return
	}

	user, err := s.users.Signup(req.Context(), payload.Email, payload.Password)
	if err != nil {
		s.writeServiceError(w, req, err, msgInvalidPassword)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"user": user})
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, req *http.Request) {
	payload, ok := decodeCredentials(w, req)
	if !ok {
		return
	}

	token, err := s.users.Login(req.Context(), payload.Email, payload.Password)
	if err != nil {
		s.writeServiceError(w, req, err, msgInvalidPassword)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *HTTPServer) handleMe(w http.ResponseWriter, req *http.Request) {
	user, ok := userFromContext(req.Context())
	if !ok {
		s.logger.Error(req.Context(), "auth context missing", "path", req.URL.Path)
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (s *HTTPServer) handleReady(w http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), readinessTimeout)
	defer cancel()

	if err := s.users.Ready(ctx); err != nil {
		s.logger.Warn(req.Context(), "readiness check failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeCredentials reads the JSON body and writes the 4xx itself when it
// cannot. Field presence is left to the service.
func decodeCredentials(w http.ResponseWriter, req *http.Request) (credentials, bool) {
	var payload credentials

	// The server closes the connection after an oversized body only when
	// MaxBytesReader holds its own writer.
	req.Body = http.MaxBytesReader(baseWriter(w), req.Body, maxBodyBytes)
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return payload, false
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return payload, false
	}
	return payload, true
}
