package blocks

import (
	"github.com/JaimeStill/dataserver/internal/envelope"
	"github.com/JaimeStill/dataserver/pkg/query"
	"github.com/JaimeStill/dataserver/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "data_header", "h").
	Join("data_body", "b", "b.data_header_id = h.id").
	Project("id", "ID").
	Project("name", "Name").
	Project("block_type", "Type").
	ProjectFrom("b", "payload", "Payload").
	ProjectFrom("b", "checksum", "Checksum").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{Field: "CreatedAt"}

func scanBlock(s repository.Scanner) (Block, error) {
	var b Block
	var blockType string

	if err := s.Scan(
		&b.ID,
		&b.Name,
		&blockType,
		&b.Payload,
		&b.Checksum,
		&b.CreatedAt,
	); err != nil {
		return b, err
	}

	t, err := envelope.ParseBlockType(blockType)
	if err != nil {
		return b, err
	}
	b.Type = t

	return b, nil
}
