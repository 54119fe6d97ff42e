package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

type ctxKey string

const userKey ctxKey = "user"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

// baseWriter strips wrappers down to the writer the server handed out.
func baseWriter(w http.ResponseWriter) http.ResponseWriter {
	for {
		u, ok := w.(interface{ Unwrap() http.ResponseWriter })
		if !ok {
			return w
		}
		w = u.Unwrap()
	}
}

// discardWriter keeps the status and headers of a reply and drops its body.
type discardWriter struct {
	header http.Header
	status int
}

func (d *discardWriter) Header() http.Header { return d.header }

func (d *discardWriter) WriteHeader(code int) {
	if d.status == 0 {
		d.status = code
	}
}

func (d *discardWriter) Write(b []byte) (int, error) {
	if d.status == 0 {
		d.status = http.StatusOK
	}
	return len(b), nil
}

// unmatchedAsJSON replaces the mux's plain-text 404 and 405 replies with the
// JSON error body every other route uses. The Allow header of a 405 is kept.
func (s *HTTPServer) unmatchedAsJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		h, pattern := s.mux.Handler(req)
		if pattern != "" {
			next.ServeHTTP(w, req)
			return
		}

		d := &discardWriter{header: http.Header{}}
		h.ServeHTTP(d, req)
		status := d.status
		if status == 0 {
			status = http.StatusNotFound
		}
		if allow := d.header.Get("Allow"); allow != "" {
			w.Header().Set("Allow", allow)
		}
		writeError(w, status, strings.ToLower(http.StatusText(status)))
	})
}

// audit logs one line per request and records request metrics. The route
// label is the matched mux pattern, so unknown paths share one series.
func (s *HTTPServer) audit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}

		next.ServeHTTP(rec, req)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		route := req.Pattern
		if route == "" {
			route = "unmatched"
		}
		duration := time.Since(start)

		s.recordRequestMetrics(req.Method, route, status, duration)
		s.logger.Info(req.Context(), "request",
			"method", req.Method,
			"path", req.URL.Path,
			"route", route,
			"status", status,
			"duration", duration,
		)
	})
}

// requireAuth resolves the bearer token to a user before invoking next.
func (s *HTTPServer) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		token, err := bearerToken(req.Header.Get(common.AuthorizationHeaderName))
		if err != nil {
			s.logger.Debug(req.Context(), "authorization header invalid", "error", err, "path", req.URL.Path)
			writeError(w, http.StatusUnauthorized, msgUnauthorized)
			return
		}

		user, err := s.users.Authenticate(req.Context(), token)
		if err != nil {
			s.writeServiceError(w, req, err, msgUnauthorized)
			return
		}

		next(w, req.WithContext(context.WithValue(req.Context(), userKey, user)))
	}
}

func userFromContext(ctx context.Context) (*models.PublicUser, bool) {
	user, ok := ctx.Value(userKey).(*models.PublicUser)
	return user, ok && user != nil
}

func bearerToken(header string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", errors.New("missing authorization header")
	}
	scheme := strings.TrimSpace(common.BearerPrefix)
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], scheme) {
		return "", errors.New("invalid authorization header format")
	}
	return parts[1], nil
}
