package envelope

import "errors"

var (
	// ErrMalformedEnvelope indicates text that does not follow the envelope grammar.
	ErrMalformedEnvelope = errors.New("malformed envelope")
	// ErrUnknownClassification indicates a block type name outside the closed set.
	ErrUnknownClassification = errors.New("unknown classification")
)
