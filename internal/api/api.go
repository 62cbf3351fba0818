// Package api assembles the API module from the domain systems and their routes.
package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/dataserver/internal/config"
	"github.com/JaimeStill/dataserver/internal/infrastructure"
	"github.com/JaimeStill/dataserver/pkg/middleware"
	"github.com/JaimeStill/dataserver/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
// The dispatcher is registered with the lifecycle so in-flight deliveries
// drain on shutdown.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)

	domain, err := NewDomain(runtime)
	if err != nil {
		return nil, fmt.Errorf("build domain: %w", err)
	}
	if err := domain.Dispatcher.Start(runtime.Lifecycle); err != nil {
		return nil, fmt.Errorf("start dispatcher: %w", err)
	}

	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(middleware.Recover(runtime.Logger))

	return m, nil
}
