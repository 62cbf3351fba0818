package api

import (
	"net/http"

	"github.com/JaimeStill/dataserver/internal/config"
	"github.com/JaimeStill/dataserver/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain, cfg *config.Config) {
	routes.Register(
		mux,
		domain.Blocks.Handler(cfg.API.MaxEnvelopeSizeBytes()).Routes(),
	)
}
