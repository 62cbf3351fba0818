package blocks

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/dataserver/internal/envelope"
	"github.com/JaimeStill/dataserver/pkg/handlers"
	"github.com/JaimeStill/dataserver/pkg/routes"
)

// Handler provides HTTP endpoints for block operations.
type Handler struct {
	sys             System
	logger          *slog.Logger
	maxEnvelopeSize int64
}

// NewHandler creates a Handler. Request bodies above maxEnvelopeSize bytes are rejected.
func NewHandler(sys System, logger *slog.Logger, maxEnvelopeSize int64) *Handler {
	return &Handler{
		sys:             sys,
		logger:          logger.With("handler", "blocks"),
		maxEnvelopeSize: maxEnvelopeSize,
	}
}

// Routes returns the route group definition for block endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/blocks",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Ingest},
			{Method: "GET", Pattern: "/type/{blockType}", Handler: h.FindByType},
			{Method: "GET", Pattern: "/type/{blockType}/dump", Handler: h.Dump},
			{Method: "PATCH", Pattern: "/{name}/type/{blockType}", Handler: h.UpdateType},
		},
	}
}

// Ingest accepts a JSON envelope and responds with whether it was verified and stored.
func (h *Handler) Ingest(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxEnvelopeSize)

	var env envelope.Envelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, err)
			return
		}
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %w", ErrInvalidEnvelope, err))
		return
	}

	ok, err := h.sys.Ingest(r.Context(), env)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if !ok {
		handlers.RespondJSON(w, http.StatusBadRequest, false)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, true)
}

// FindByType returns every envelope of the path classification as JSON.
func (h *Handler) FindByType(w http.ResponseWriter, r *http.Request) {
	envs, ok := h.findByType(w, r)
	if !ok {
		return
	}
	handlers.RespondJSON(w, http.StatusOK, envs)
}

// Dump returns every envelope of the path classification in its text form, one per line.
func (h *Handler) Dump(w http.ResponseWriter, r *http.Request) {
	envs, ok := h.findByType(w, r)
	if !ok {
		return
	}

	lines := make([]string, len(envs))
	for i, env := range envs {
		lines[i] = env.String()
	}
	handlers.RespondLines(w, http.StatusOK, lines)
}

// UpdateType reclassifies the named block and responds with whether it changed.
func (h *Handler) UpdateType(w http.ResponseWriter, r *http.Request) {
	ok, err := h.sys.UpdateType(r.Context(), r.PathValue("name"), r.PathValue("blockType"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, ok)
}

func (h *Handler) findByType(w http.ResponseWriter, r *http.Request) ([]envelope.Envelope, bool) {
	t, err := envelope.ParseBlockType(r.PathValue("blockType"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return nil, false
	}

	envs, err := h.sys.FindByType(r.Context(), t)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return nil, false
	}
	return envs, true
}
