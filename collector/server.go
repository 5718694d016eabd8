package collector

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ByLCY/hwlabels/inventory"
)

// Server is the inventory collector. Serve blocks until the context is
// cancelled and in-flight requests drain.
type Server struct {
	config Config
	writer *inventory.Writer
	logger *zap.Logger
	script string

	// ready is closed once the listener is bound.
	ready chan struct{}
	addr  net.Addr
}

// NewServer creates a collector for config. A nil logger disables logging.
func NewServer(config Config, logger *zap.Logger) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = 10 * time.Second
	}
	return &Server{
		config: config,
		writer: inventory.NewWriter(config.CSVPath),
		logger: logger,
		script: Script(config.PublicURL),
		ready:  make(chan struct{}),
	}, nil
}

// Ready returns a channel closed once the server accepts connections.
func (s *Server) Ready() <-chan struct{} { return s.ready }

// Addr returns the bound address. Only valid after Ready is closed.
func (s *Server) Addr() net.Addr { return s.addr }

// Serve creates the CSV header if needed, then serves HTTP until ctx is done.
func (s *Server) Serve(ctx context.Context) error {
	if err := s.writer.EnsureHeader(); err != nil {
		return fmt.Errorf("preparing inventory file: %w", err)
	}

	listener, err := net.Listen("tcp", s.config.Listen)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.config.Listen, err)
	}
	s.addr = listener.Addr()
	close(s.ready)

	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.logger.Info("collector listening",
		zap.String("address", s.addr.String()),
		zap.String("csv", s.writer.Path()),
		zap.String("public_url", s.config.PublicURL),
	)

	serveDone := make(chan error, 1)
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveDone <- err
		}
		close(serveDone)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("collector shutting down")
	case err := <-serveDone:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("collector shutdown: %w", err)
	}
	s.logger.Info("collector stopped")
	return nil
}
