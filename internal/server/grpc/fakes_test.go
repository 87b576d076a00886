package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/mailgate/internal/common"
	"github.com/dmitrijs2005/mailgate/internal/logging"
	"github.com/dmitrijs2005/mailgate/internal/server/models"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

var created = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

// fakeAccounts issues token "tok-<username>" and accepts password "secret1".
type fakeAccounts struct {
	registerErr error
	sessionErr  error
	logoutErr   error

	loggedOut []string
}

func (f *fakeAccounts) Register(_ context.Context, username, _ string) (*models.Account, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &models.Account{Username: username, CreatedAt: created}, nil
}

func (f *fakeAccounts) Login(_ context.Context, username, password string) (string, *models.Account, error) {
	if password != "secret1" {
		return "", nil, common.ErrorUnauthorized
	}
	return "tok-" + username, &models.Account{Username: username, CreatedAt: created}, nil
}

func (f *fakeAccounts) StartSession(_ context.Context, username string) (string, error) {
	if f.sessionErr != nil {
		return "", f.sessionErr
	}
	return "tok-" + username, nil
}

func (f *fakeAccounts) Logout(_ context.Context, token string) error {
	if f.logoutErr != nil {
		return f.logoutErr
	}
	f.loggedOut = append(f.loggedOut, token)
	return nil
}

// fakeMailbox serves a single mailbox owned by "alice" with token
// "tok-alice".
type fakeMailbox struct {
	forwarding *string
	messages   []*models.Message
	deleteErr  error
	listErr    error
}

func (f *fakeMailbox) gate(token, username string) error {
	if token != "tok-alice" {
		return common.ErrorUnauthorized
	}
	if username != "alice" {
		return common.ErrForbidden
	}
	return nil
}

func (f *fakeMailbox) GetAccount(_ context.Context, token, username string) (*models.Account, error) {
	if err := f.gate(token, username); err != nil {
		return nil, err
	}
	return &models.Account{Username: "alice", ForwardingAddress: f.forwarding, CreatedAt: created}, nil
}

func (f *fakeMailbox) ListMessages(_ context.Context, token, username string) ([]*models.Message, error) {
	if err := f.gate(token, username); err != nil {
		return nil, err
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.messages, nil
}

func (f *fakeMailbox) SetForwarding(_ context.Context, token, username, address string) error {
	if err := f.gate(token, username); err != nil {
		return err
	}
	if address == "" {
		f.forwarding = nil
		return nil
	}
	if address == "bad" {
		return common.ErrInvalidAddress
	}
	f.forwarding = &address
	return nil
}

func (f *fakeMailbox) DeleteMessage(_ context.Context, token, username, id string) error {
	if err := f.gate(token, username); err != nil {
		return err
	}
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, m := range f.messages {
		if m.ID == id {
			f.messages = append(f.messages[:i], f.messages[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}
