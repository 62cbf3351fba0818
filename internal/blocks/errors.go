package blocks

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/dataserver/internal/envelope"
)

// Domain errors for block operations.
var (
	ErrNotFound        = errors.New("block not found")
	ErrDuplicate       = errors.New("block name already exists")
	ErrInvalidEnvelope = errors.New("invalid envelope")
)

// MapHTTPStatus maps block domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidEnvelope),
		errors.Is(err, envelope.ErrUnknownClassification),
		errors.Is(err, envelope.ErrMalformedEnvelope):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
