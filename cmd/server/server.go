package main

import (
	"context"
	"fmt"
	"time"

	"github.com/JaimeStill/dataserver/internal/config"
	"github.com/JaimeStill/dataserver/internal/infrastructure"
	"github.com/JaimeStill/dataserver/pkg/formatting"
)

// Server owns the infrastructure, the mounted modules, and the HTTP listener.
type Server struct {
	infra   *infrastructure.Infrastructure
	modules *Modules
	http    *httpServer
}

func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("infrastructure: %w", err)
	}

	modules, err := NewModules(infra, cfg)
	if err != nil {
		return nil, fmt.Errorf("modules: %w", err)
	}

	router := buildRouter(infra)
	modules.Mount(router)

	infra.Logger.Info(
		"server initialized",
		"addr", cfg.Server.Addr(),
		"version", cfg.Version,
		"env", cfg.Env(),
		"sink", cfg.Dispatch.Sink,
		"max_envelope_size", formatting.FormatBytes(cfg.API.MaxEnvelopeSizeBytes(), 0),
	)

	return &Server{
		infra:   infra,
		modules: modules,
		http:    newHTTPServer(&cfg.Server, router, infra.Logger),
	}, nil
}

// Run starts every subsystem, blocks until ctx is cancelled, and then
// shuts the lifecycle down within timeout.
func (s *Server) Run(ctx context.Context, timeout time.Duration) error {
	if err := s.start(); err != nil {
		return fmt.Errorf("start: %w", err)
	}

	<-ctx.Done()
	s.infra.Logger.Info("initiating shutdown", "timeout", timeout)

	if err := s.infra.Lifecycle.Shutdown(timeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) start() error {
	s.infra.Logger.Info("starting service")

	if err := s.infra.Start(); err != nil {
		return err
	}
	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		s.infra.Logger.Info("all subsystems ready")
	}()

	return nil
}
