package api

import (
	"github.com/JaimeStill/dataserver/internal/blocks"
	"github.com/JaimeStill/dataserver/internal/dispatch"
)

// Domain holds the domain systems that comprise the API.
type Domain struct {
	Blocks     blocks.System
	Dispatcher *dispatch.Dispatcher
}

// NewDomain creates the domain systems from the API runtime.
func NewDomain(runtime *Runtime) (*Domain, error) {
	sink, err := dispatch.NewSink(&runtime.Dispatch, runtime.Storage)
	if err != nil {
		return nil, err
	}

	dispatcher := dispatch.New(
		sink,
		runtime.Dispatch.MaxConcurrent,
		runtime.Dispatch.RequestTimeoutDuration(),
		runtime.Logger,
	)

	blocksSystem := blocks.New(
		blocks.NewRepository(runtime.Database.Connection()),
		dispatcher,
		runtime.Logger,
	)

	return &Domain{
		Blocks:     blocksSystem,
		Dispatcher: dispatcher,
	}, nil
}
