package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/doeshing/firewatch/internal/domain"
)

// Server runs the HTTP API until its context is cancelled.
type Server struct {
	http            *http.Server
	shutdownTimeout time.Duration
	log             *zap.Logger
}

// New builds a server for handler on addr.
func New(addr string, handler http.Handler, settings domain.ServerSettings, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	readTimeout := time.Duration(settings.ReadTimeoutSeconds) * time.Second
	if readTimeout <= 0 {
		readTimeout = 15 * time.Second
	}
	shutdown := time.Duration(settings.ShutdownTimeoutSeconds) * time.Second
	if shutdown <= 0 {
		shutdown = domain.DefaultShutdownTimeout
	}
	return &Server{
		http: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: readTimeout,
			ReadTimeout:       readTimeout,
		},
		shutdownTimeout: shutdown,
		log:             log,
	}
}

// Run listens on the configured address. It returns nil after a graceful
// shutdown triggered by ctx.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", zap.String("addr", ln.Addr().String()))
		errCh <- s.http.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	s.log.Info("http server shutting down")
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
