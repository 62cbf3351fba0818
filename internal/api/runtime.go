package api

import (
	"github.com/JaimeStill/dataserver/internal/config"
	"github.com/JaimeStill/dataserver/internal/dispatch"
	"github.com/JaimeStill/dataserver/internal/infrastructure"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Dispatch dispatch.Config
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
		},
		Dispatch: cfg.Dispatch,
	}
}
