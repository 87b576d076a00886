package messages

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/mailgate/internal/common"
	"github.com/dmitrijs2005/mailgate/internal/dbx"
	"github.com/dmitrijs2005/mailgate/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, m *models.Message) error {
	query :=
		`INSERT INTO messages (id, owner, subject, body, sender_address, received_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 `

	_, err := r.db.ExecContext(ctx, query, m.ID, m.Owner, m.Subject, m.Body, m.SenderAddress, m.ReceivedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// ListByOwner returns the owner's messages newest first. Messages received
// at the same instant are ordered by insertion, latest first.
func (r *PostgresRepository) ListByOwner(ctx context.Context, owner string) ([]*models.Message, error) {
	query :=
		`SELECT id, owner, subject, body, sender_address, received_at FROM messages
		 WHERE owner = $1
		 ORDER BY received_at DESC, seq DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Message, 0)
	for rows.Next() {
		m := &models.Message{}
		if err := rows.Scan(&m.ID, &m.Owner, &m.Subject, &m.Body, &m.SenderAddress, &m.ReceivedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

// Delete removes the message only when it belongs to owner. A missing id and
// an id owned by someone else both yield common.ErrorNotFound.
func (r *PostgresRepository) Delete(ctx context.Context, owner, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrorNotFound
	}

	query :=
		`DELETE FROM messages
		 WHERE id = $1 AND owner = $2
		 `

	res, err := r.db.ExecContext(ctx, query, id, owner)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}
