package accounts

import (
	"context"

	"github.com/dmitrijs2005/mailgate/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	Exists(ctx context.Context, username string) (bool, error)
	SetForwarding(ctx context.Context, username string, address *string) error
}
