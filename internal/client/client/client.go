package client

import (
	"context"

	"github.com/dmitrijs2005/mailgate/internal/api"
)

type Client interface {
	Close() error
	Ping(ctx context.Context) error
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) error
	Logout(ctx context.Context) error
	Username() string
	Account(ctx context.Context) (*api.Account, error)
	SetForwarding(ctx context.Context, address string) (string, error)
	ListMessages(ctx context.Context) ([]api.Message, error)
	DeleteMessage(ctx context.Context, id string) (bool, error)
}
