// Package blocks verifies, stores, queries, and reclassifies data blocks.
package blocks

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/dataserver/internal/envelope"
)

// Block is a persisted envelope.
type Block struct {
	ID        uuid.UUID          `json:"id"`
	Name      string             `json:"name"`
	Type      envelope.BlockType `json:"blockType"`
	Payload   string             `json:"payload"`
	Checksum  string             `json:"checksum"`
	CreatedAt time.Time          `json:"createdAt"`
}

// FromEnvelope builds an unsaved Block from env.
func FromEnvelope(env envelope.Envelope) Block {
	return Block{
		Name:     env.Header.Name,
		Type:     env.Header.Type,
		Payload:  env.Body.Payload,
		Checksum: env.Body.Checksum,
	}
}

// Envelope projects the record back to its envelope form, checksum included.
func (b Block) Envelope() envelope.Envelope {
	return envelope.New(b.Name, b.Type, b.Payload, b.Checksum)
}
