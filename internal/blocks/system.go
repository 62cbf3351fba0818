package blocks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/dataserver/internal/dispatch"
	"github.com/JaimeStill/dataserver/internal/envelope"
	"github.com/JaimeStill/dataserver/pkg/checksum"
)

// Dispatcher starts downstream delivery of a payload without blocking.
type Dispatcher interface {
	Dispatch(payload string) <-chan dispatch.Outcome
}

// System defines the public contract for block operations.
type System interface {
	Handler(maxEnvelopeSize int64) *Handler

	// Ingest verifies env against its checksum and stores it. A mismatch
	// returns false with a nil error and nothing is stored. Storage errors
	// are returned as-is. Verified payloads are dispatched downstream.
	Ingest(ctx context.Context, env envelope.Envelope) (bool, error)

	// FindByType returns every stored envelope of type t. The result is
	// never nil.
	FindByType(ctx context.Context, t envelope.BlockType) ([]envelope.Envelope, error)

	// UpdateType reclassifies the named block. It returns false when no
	// block has the name, and ErrUnknownClassification when the block
	// exists but newType is not a known classification.
	UpdateType(ctx context.Context, name, newType string) (bool, error)
}

type system struct {
	repo       Repository
	dispatcher Dispatcher
	logger     *slog.Logger
}

// New creates the block System over repo, dispatching verified payloads through dispatcher.
func New(repo Repository, dispatcher Dispatcher, logger *slog.Logger) System {
	return &system{
		repo:       repo,
		dispatcher: dispatcher,
		logger:     logger.With("system", "blocks"),
	}
}

func (s *system) Handler(maxEnvelopeSize int64) *Handler {
	return NewHandler(s, s.logger, maxEnvelopeSize)
}

func (s *system) Ingest(ctx context.Context, env envelope.Envelope) (bool, error) {
	if err := validate(env); err != nil {
		return false, err
	}

	if !checksum.Verify(env.Body.Payload, env.Body.Checksum) {
		s.logger.Warn("checksum mismatch",
			"name", env.Header.Name,
			"type", env.Header.Type,
		)
		return false, nil
	}

	b, err := s.repo.Store(ctx, FromEnvelope(env))
	if err != nil {
		return false, fmt.Errorf("store %q: %w", env.Header.Name, err)
	}

	s.logger.Info("block stored",
		"id", b.ID,
		"name", b.Name,
		"type", b.Type,
		"bytes", len(b.Payload),
	)

	s.dispatcher.Dispatch(b.Payload)
	return true, nil
}

func (s *system) FindByType(ctx context.Context, t envelope.BlockType) ([]envelope.Envelope, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %q", envelope.ErrUnknownClassification, string(t))
	}

	blocks, err := s.repo.FindByType(ctx, t)
	if err != nil {
		return nil, err
	}

	envs := make([]envelope.Envelope, 0, len(blocks))
	for _, b := range blocks {
		envs = append(envs, b.Envelope())
	}
	return envs, nil
}

func (s *system) UpdateType(ctx context.Context, name, newType string) (bool, error) {
	b, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return false, err
	}
	if b == nil {
		return false, nil
	}

	t, err := envelope.ParseBlockType(newType)
	if err != nil {
		return false, err
	}

	updated, err := s.repo.UpdateType(ctx, name, t)
	if err != nil {
		return false, err
	}

	if updated {
		s.logger.Info("block reclassified",
			"name", name,
			"from", b.Type,
			"to", t,
		)
	}
	return updated, nil
}

func validate(env envelope.Envelope) error {
	if env.Header.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidEnvelope)
	}
	if !env.Header.Type.Valid() {
		return fmt.Errorf("%w: %q", envelope.ErrUnknownClassification, string(env.Header.Type))
	}
	return nil
}
