package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/dmitrijs2005/mailgate/internal/common"
	"github.com/dmitrijs2005/mailgate/internal/logging"
	"github.com/dmitrijs2005/mailgate/internal/server/models"
	"github.com/dmitrijs2005/mailgate/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/mailgate/internal/server/sessions"
)

// MailboxService serves the per-mailbox operations. Every method takes the
// caller's session token and the mailbox it targets, and refuses to act
// unless the session belongs to that mailbox.
type MailboxService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	sessions    *sessions.Registry
	logger      logging.Logger
}

func NewMailboxService(db *sql.DB, m repomanager.RepositoryManager, registry *sessions.Registry, logger logging.Logger) *MailboxService {
	return &MailboxService{
		db:          db,
		repomanager: m,
		sessions:    registry,
		logger:      logger.With("module", "mailbox"),
	}
}

// authorize resolves token and checks that it belongs to username.
// It returns the normalized username on success.
func (s *MailboxService) authorize(ctx context.Context, token, username string) (string, error) {
	owner, ok, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		s.logger.Error(ctx, "session lookup failed", "error", err)
		return "", common.ErrorInternal
	}
	if !ok {
		return "", common.ErrorUnauthorized
	}

	target, err := common.NormalizeUsername(username)
	if err != nil || target != owner {
		s.logger.Warn(ctx, "mailbox access denied", "session_user", owner, "target", username)
		return "", common.ErrForbidden
	}

	return owner, nil
}

// GetAccount returns the caller's own account.
func (s *MailboxService) GetAccount(ctx context.Context, token, username string) (*models.Account, error) {
	owner, err := s.authorize(ctx, token, username)
	if err != nil {
		return nil, err
	}

	account, err := s.repomanager.Accounts(s.db).GetByUsername(ctx, owner)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "account lookup failed", "username", owner, "error", err)
		return nil, common.ErrorInternal
	}
	return account, nil
}

// ListMessages returns the mailbox contents, newest first.
func (s *MailboxService) ListMessages(ctx context.Context, token, username string) ([]*models.Message, error) {
	owner, err := s.authorize(ctx, token, username)
	if err != nil {
		return nil, err
	}

	msgs, err := s.repomanager.Messages(s.db).ListByOwner(ctx, owner)
	if err != nil {
		s.logger.Error(ctx, "message listing failed", "username", owner, "error", err)
		return nil, common.ErrorInternal
	}
	return msgs, nil
}

// SetForwarding sets or, for an empty address, clears the forwarding
// address. A non-empty address must contain '@'.
func (s *MailboxService) SetForwarding(ctx context.Context, token, username, address string) error {
	owner, err := s.authorize(ctx, token, username)
	if err != nil {
		return err
	}

	var addr *string
	if address = strings.TrimSpace(address); address != "" {
		if !common.IsForwardingAddress(address) {
			return common.ErrInvalidAddress
		}
		addr = &address
	}

	if err := s.repomanager.Accounts(s.db).SetForwarding(ctx, owner, addr); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		s.logger.Error(ctx, "forwarding update failed", "username", owner, "error", err)
		return common.ErrorInternal
	}

	s.logger.Info(ctx, "forwarding updated", "username", owner, "enabled", addr != nil)
	return nil
}

// DeleteMessage removes one of the caller's messages. An id that does not
// exist and an id that belongs to another mailbox both yield
// common.ErrorNotFound.
func (s *MailboxService) DeleteMessage(ctx context.Context, token, username, id string) error {
	owner, err := s.authorize(ctx, token, username)
	if err != nil {
		return err
	}

	if err := s.repomanager.Messages(s.db).Delete(ctx, owner, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		s.logger.Error(ctx, "message delete failed", "username", owner, "error", err)
		return common.ErrorInternal
	}
	return nil
}
