package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/soheilhy/cmux"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/dtroode/interview-assistant/internal/logger"
	"github.com/dtroode/interview-assistant/internal/model"
)

var _ model.Server = (*Server)(nil)

// Server serves the HTTP API and the gRPC health service on a single port.
// Incoming connections are split by cmux: HTTP/2 requests with a gRPC content
// type go to the gRPC server, everything else to the HTTP server.
type Server struct {
	addr       string
	httpServer *http.Server
	grpcServer *grpc.Server
	logger     *logger.Logger

	mu       sync.Mutex
	listener net.Listener
	stopping atomic.Bool
}

// New creates a Server bound to addr once Start is called.
func New(addr string, handler http.Handler, grpcServer *grpc.Server, logger *logger.Logger) *Server {
	protocols := new(http.Protocols)
	protocols.SetHTTP1(true)
	protocols.SetUnencryptedHTTP2(true)

	return &Server{
		addr: addr,
		httpServer: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			Protocols:         protocols,
		},
		grpcServer: grpcServer,
		logger:     logger,
	}
}

// Start listens through securityLayer and blocks until every server has stopped.
func (s *Server) Start(securityLayer model.SecurityLayer) error {
	lis, err := securityLayer.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	m := cmux.New(lis)
	grpcL := m.MatchWithWriters(cmux.HTTP2MatchHeaderFieldSendSettings("content-type", "application/grpc"))
	httpL := m.Match(cmux.Any())

	s.mu.Lock()
	s.listener = lis
	s.mu.Unlock()

	s.logger.Info("server listening",
		"address", lis.Addr().String())

	var g errgroup.Group
	g.Go(func() error {
		return s.serveErr(s.grpcServer.Serve(grpcL))
	})
	g.Go(func() error {
		return s.serveErr(s.httpServer.Serve(httpL))
	})
	g.Go(func() error {
		return s.serveErr(m.Serve())
	})

	return g.Wait()
}

// Stop drains HTTP and gRPC traffic, forcing the gRPC server down if ctx expires first.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	lis := s.listener
	s.mu.Unlock()
	if lis == nil {
		return nil
	}
	s.stopping.Store(true)

	var errs []error
	if err := s.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to shut down http server: %w", err))
	}

	stopped := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-ctx.Done():
		s.grpcServer.Stop()
		<-stopped
	}

	// closing the root listener ends cmux's accept loop
	_ = lis.Close()

	return errors.Join(errs...)
}

// Address returns the bound address once started, the configured one before.
func (s *Server) Address() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// serveErr drops the errors every serve loop returns once its listener is closed.
func (s *Server) serveErr(err error) error {
	if err != nil && s.stopping.Load() {
		return nil
	}
	return ignoreClosed(err)
}

func ignoreClosed(err error) error {
	switch {
	case err == nil,
		errors.Is(err, http.ErrServerClosed),
		errors.Is(err, cmux.ErrListenerClosed),
		errors.Is(err, net.ErrClosed),
		errors.Is(err, grpc.ErrServerStopped):
		return nil
	}
	return err
}
