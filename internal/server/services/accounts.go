// Package services contains server-side business logic: account
// registration and login, the per-mailbox operations guarded by the
// session gate, and the inbound message pipeline.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/mailgate/internal/common"
	"github.com/dmitrijs2005/mailgate/internal/dbx"
	"github.com/dmitrijs2005/mailgate/internal/logging"
	"github.com/dmitrijs2005/mailgate/internal/server/config"
	"github.com/dmitrijs2005/mailgate/internal/server/models"
	"github.com/dmitrijs2005/mailgate/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/mailgate/internal/server/sessions"
)

const (
	minPasswordLen   = 6
	maxPasswordBytes = 72
)

// AccountService registers accounts and manages their sessions.
type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	sessions    *sessions.Registry
	logger      logging.Logger
	cost        int

	dummyOnce sync.Once
	dummyHash []byte
}

// NewAccountService constructs an AccountService using repositories and server config.
func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, registry *sessions.Registry, cfg *config.Config, logger logging.Logger) *AccountService {
	cost := cfg.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &AccountService{
		db:          db,
		repomanager: m,
		sessions:    registry,
		logger:      logger.With("module", "accounts"),
		cost:        cost,
	}
}

// Register creates an account. The username is case-folded before it is
// stored. Existence check and insert run in one transaction; the primary
// key catches any concurrent duplicate.
func (s *AccountService) Register(ctx context.Context, username, password string) (*models.Account, error) {
	name, err := common.NormalizeUsername(username)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCreationFailed, err)
	}

	var account *models.Account
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Accounts(tx)

		exists, err := repo.Exists(ctx, name)
		if err != nil {
			return err
		}
		if exists {
			return common.ErrUsernameTaken
		}

		account, err = repo.Create(ctx, &models.Account{Username: name, PasswordHash: hash})
		return err
	})

	switch {
	case err == nil:
	case errors.Is(err, common.ErrUsernameTaken):
		return nil, common.ErrUsernameTaken
	default:
		s.logger.Error(ctx, "account creation failed", "username", name, "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrCreationFailed, err)
	}

	s.logger.Info(ctx, "account registered", "username", name)
	return account, nil
}

// Authenticate checks the credentials. Unknown users, malformed names and
// wrong passwords all yield common.ErrorUnauthorized after a bcrypt
// comparison, so response time does not reveal which one happened.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*models.Account, error) {
	name, err := common.NormalizeUsername(username)
	if err != nil {
		s.burnCompare(password)
		return nil, common.ErrorUnauthorized
	}

	account, err := s.repomanager.Accounts(s.db).GetByUsername(ctx, name)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.burnCompare(password)
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "account lookup failed", "username", name, "error", err)
		return nil, common.ErrorInternal
	}

	if err := bcrypt.CompareHashAndPassword(account.PasswordHash, []byte(password)); err != nil {
		return nil, common.ErrorUnauthorized
	}

	return account, nil
}

// Login authenticates and opens a session. It returns the session token.
func (s *AccountService) Login(ctx context.Context, username, password string) (string, *models.Account, error) {
	account, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return "", nil, err
	}

	token, err := s.StartSession(ctx, account.Username)
	if err != nil {
		return "", nil, err
	}
	return token, account, nil
}

// StartSession opens a session for an already verified username.
func (s *AccountService) StartSession(ctx context.Context, username string) (string, error) {
	token, err := s.sessions.Create(ctx, username)
	if err != nil {
		s.logger.Error(ctx, "session creation failed", "username", username, "error", err)
		return "", common.ErrorInternal
	}
	return token, nil
}

// Logout ends the session. Unknown tokens are ignored.
func (s *AccountService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Destroy(ctx, token); err != nil {
		return common.ErrorInternal
	}
	return nil
}

func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLen {
		return common.ErrInvalidPassword
	}
	if len(password) > maxPasswordBytes {
		return common.ErrPasswordTooLong
	}
	return nil
}

func (s *AccountService) burnCompare(password string) {
	s.dummyOnce.Do(func() {
		h, err := bcrypt.GenerateFromPassword(common.GenerateRandByteArray(16), s.cost)
		if err == nil {
			s.dummyHash = h
		}
	})
	if s.dummyHash != nil {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
	}
}
