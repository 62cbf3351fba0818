package blocks

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/dataserver/internal/envelope"
	"github.com/JaimeStill/dataserver/pkg/query"
	"github.com/JaimeStill/dataserver/pkg/repository"
)

// Repository persists blocks. Names are unique across all records.
type Repository interface {
	// Store inserts b and returns the saved record. A taken name yields ErrDuplicate.
	Store(ctx context.Context, b Block) (*Block, error)
	FindByType(ctx context.Context, t envelope.BlockType) ([]Block, error)
	// FindByName returns nil without error when no record has the name.
	FindByName(ctx context.Context, name string) (*Block, error)
	// UpdateType rewrites the type of the named record and reports whether a record changed.
	UpdateType(ctx context.Context, name string, t envelope.BlockType) (bool, error)
}

type postgres struct {
	db *sql.DB
}

// NewRepository creates a PostgreSQL-backed Repository.
func NewRepository(db *sql.DB) Repository {
	return &postgres{db: db}
}

func (p *postgres) Store(ctx context.Context, b Block) (*Block, error) {
	const insertHeader = `
		INSERT INTO data_header (id, name, block_type)
		VALUES ($1, $2, $3)
		RETURNING created_at`

	const insertBody = `
		INSERT INTO data_body (id, data_header_id, payload, checksum)
		VALUES ($1, $2, $3, $4)`

	b.ID = uuid.New()

	saved, err := repository.WithTx(ctx, p.db, func(tx *sql.Tx) (Block, error) {
		createdAt, err := repository.QueryOne(
			ctx, tx, insertHeader,
			[]any{b.ID, b.Name, string(b.Type)},
			scanTime,
		)
		if err != nil {
			return Block{}, fmt.Errorf("insert header: %w", err)
		}

		if err := repository.ExecExpectOne(
			ctx, tx, insertBody,
			uuid.New(), b.ID, b.Payload, b.Checksum,
		); err != nil {
			return Block{}, fmt.Errorf("insert body: %w", err)
		}

		b.CreatedAt = createdAt
		return b, nil
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &saved, nil
}

func (p *postgres) FindByType(ctx context.Context, t envelope.BlockType) ([]Block, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("Type", string(t)).
		Build()

	blocks, err := repository.QueryMany(ctx, p.db, q, args, scanBlock)
	if err != nil {
		return nil, fmt.Errorf("query blocks by type: %w", err)
	}
	return blocks, nil
}

func (p *postgres) FindByName(ctx context.Context, name string) (*Block, error) {
	q, args := query.NewBuilder(projection).BuildSingle("Name", name)

	b, err := repository.QueryOptional(ctx, p.db, q, args, scanBlock)
	if err != nil {
		return nil, fmt.Errorf("query block by name: %w", err)
	}
	return b, nil
}

func (p *postgres) UpdateType(ctx context.Context, name string, t envelope.BlockType) (bool, error) {
	const update = `UPDATE data_header SET block_type = $1 WHERE name = $2`

	n, err := repository.ExecAffected(ctx, p.db, update, string(t), name)
	if err != nil {
		return false, fmt.Errorf("update block type: %w", err)
	}
	return n == 1, nil
}

func scanTime(s repository.Scanner) (time.Time, error) {
	var t time.Time
	err := s.Scan(&t)
	return t, err
}
