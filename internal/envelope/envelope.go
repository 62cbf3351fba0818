// Package envelope defines the unit of block transfer and its textual codec.
// An Envelope pairs a Header (identity and classification) with a Body
// (payload and integrity tag).
package envelope

import (
	"fmt"
	"slices"
)

// BlockType is the classification tag of a block. The set of values is closed.
type BlockType string

const (
	TypeA BlockType = "TYPE_A"
	TypeB BlockType = "TYPE_B"
)

var blockTypes = []BlockType{TypeA, TypeB}

// BlockTypes returns every valid classification.
func BlockTypes() []BlockType {
	return slices.Clone(blockTypes)
}

// ParseBlockType returns the BlockType whose textual name is exactly s.
func ParseBlockType(s string) (BlockType, error) {
	t := BlockType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownClassification, s)
	}
	return t, nil
}

// Valid reports whether t is a member of the closed set.
func (t BlockType) Valid() bool {
	return slices.Contains(blockTypes, t)
}

func (t BlockType) String() string {
	return string(t)
}

func (t BlockType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownClassification, string(t))
	}
	return []byte(t), nil
}

// UnmarshalText rejects names outside the closed set rather than defaulting.
func (t *BlockType) UnmarshalText(text []byte) error {
	parsed, err := ParseBlockType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Header identifies and classifies a block.
type Header struct {
	Name string    `json:"name"`
	Type BlockType `json:"blockType"`
}

// Body carries the block payload and its claimed checksum.
type Body struct {
	Payload  string `json:"dataBody"`
	Checksum string `json:"checksum"`
}

// Envelope is a transient, per-request block submission.
type Envelope struct {
	Header Header `json:"dataHeader"`
	Body   Body   `json:"dataBody"`
}

// New builds an Envelope from its parts.
func New(name string, t BlockType, payload, checksum string) Envelope {
	return Envelope{
		Header: Header{Name: name, Type: t},
		Body:   Body{Payload: payload, Checksum: checksum},
	}
}

// String returns the text encoding of the envelope.
func (e Envelope) String() string {
	return Text{}.Encode(e)
}
