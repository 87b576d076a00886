package messages

import (
	"context"

	"github.com/dmitrijs2005/mailgate/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, message *models.Message) error
	ListByOwner(ctx context.Context, owner string) ([]*models.Message, error)
	Delete(ctx context.Context, owner, id string) error
}
