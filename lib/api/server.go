package api

import (
	"context"
	"io"
	"net"
	"net/http"
	"time"

	ghandlers "github.com/gorilla/handlers"
)

const (
	DefaultReadTimeout  = 10 * time.Second
	DefaultWriteTimeout = 30 * time.Second
)

// Server serves handler with CORS and combined access logs written to
// logOutput.
type Server struct {
	server   *http.Server
	listener net.Listener
}

func NewServer(bind string, handler http.Handler, logOutput io.Writer) *Server {
	cors := ghandlers.CORS(
		ghandlers.AllowedOrigins([]string{"*"}),
		ghandlers.AllowedMethods([]string{"GET", "POST"}),
		ghandlers.AllowedHeaders([]string{"Content-Type", "X-Requested-With", "Cache-Control", "Access-Control"}),
	)

	return &Server{
		server: &http.Server{
			Addr:         bind,
			Handler:      ghandlers.CombinedLoggingHandler(logOutput, cors(handler)),
			ReadTimeout:  DefaultReadTimeout,
			WriteTimeout: DefaultWriteTimeout,
		},
	}
}

// Listen binds the address; Addr is known after it returns.
func (s *Server) Listen() (err error) {
	s.listener, err = net.Listen("tcp", s.server.Addr)
	return
}

func (s *Server) Addr() string {
	if s.listener == nil {
		return s.server.Addr
	}
	return s.listener.Addr().String()
}

func (s *Server) Serve() error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	log.Info("api server started", "bind", s.Addr())
	if err := s.server.Serve(s.listener); err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
