// Package httpx is the JSON-over-HTTP transport of the auth service.
package httpx

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/prometheus/client_golang/prometheus"
)

// UserService is what the handlers need from the business layer.
type UserService interface {
	Signup(ctx context.Context, email, password string) (*models.PublicUser, error)
	Login(ctx context.Context, email, password string) (string, error)
	Authenticate(ctx context.Context, token string) (*models.PublicUser, error)
	Ready(ctx context.Context) error
}

const (
	maxBodyBytes      = 1 << 20
	readHeaderTimeout = 5 * time.Second
	readinessTimeout  = 2 * time.Second
)

type HTTPServer struct {
	address         string
	users           UserService
	logger          logging.Logger
	shutdownTimeout time.Duration

	mux            *http.ServeMux
	registry       *prometheus.Registry
	requestTotal   *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

func NewHTTPServer(a string, l logging.Logger, us UserService, shutdownTimeout time.Duration) *HTTPServer {
	s := &HTTPServer{
		address:         a,
		logger:          l.With("module", "http_server"),
		users:           us,
		shutdownTimeout: shutdownTimeout,
		mux:             http.NewServeMux(),
	}
	s.initMetrics()
	s.register()
	return s
}

// Handler returns the full middleware chain around the router.
func (s *HTTPServer) Handler() http.Handler {
	return s.audit(s.unmatchedAsJSON(s.mux))
}

// Run serves until ctx is cancelled, then drains in-flight requests for up to
// the shutdown timeout. A bind failure is returned immediately.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
		defer cancel()
		stopped <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-stopped
}
