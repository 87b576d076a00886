package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/mailgate/internal/common"
	"github.com/dmitrijs2005/mailgate/internal/dbx"
	"github.com/dmitrijs2005/mailgate/internal/logging"
	"github.com/dmitrijs2005/mailgate/internal/server/config"
	"github.com/dmitrijs2005/mailgate/internal/server/models"
	"github.com/dmitrijs2005/mailgate/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/mailgate/internal/server/repositories/messages"
	"github.com/dmitrijs2005/mailgate/internal/server/sessions"
)

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (l nopLogger) With(...any) logging.Logger          { return l }

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

// --- accounts ---

type fakeAccountsRepo struct {
	mu       sync.Mutex
	accounts map[string]*models.Account

	createErr error
	getErr    error
	existsErr error
	setErr    error

	getCalls int
}

func newFakeAccountsRepo() *fakeAccountsRepo {
	return &fakeAccountsRepo{accounts: make(map[string]*models.Account)}
}

func (f *fakeAccountsRepo) Create(_ context.Context, a *models.Account) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.accounts[a.Username]; ok {
		return nil, common.ErrUsernameTaken
	}
	cp := *a
	f.accounts[a.Username] = &cp
	return a, nil
}

func (f *fakeAccountsRepo) GetByUsername(_ context.Context, username string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	a, ok := f.accounts[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAccountsRepo) Exists(_ context.Context, username string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.accounts[username]
	return ok, nil
}

func (f *fakeAccountsRepo) SetForwarding(_ context.Context, username string, address *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	a, ok := f.accounts[username]
	if !ok {
		return common.ErrorNotFound
	}
	if address == nil {
		a.ForwardingAddress = nil
	} else {
		v := *address
		a.ForwardingAddress = &v
	}
	return nil
}

// --- messages ---

type storedMessage struct {
	m   models.Message
	seq int
}

type fakeMessagesRepo struct {
	mu   sync.Mutex
	rows []storedMessage
	seq  int

	createErr error
	listErr   error
	deleteErr error
}

func (f *fakeMessagesRepo) Create(_ context.Context, m *models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.seq++
	f.rows = append(f.rows, storedMessage{m: *m, seq: f.seq})
	return nil
}

func (f *fakeMessagesRepo) ListByOwner(_ context.Context, owner string) ([]*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var rows []storedMessage
	for _, r := range f.rows {
		if r.m.Owner == owner {
			rows = append(rows, r)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].m.ReceivedAt.Equal(rows[j].m.ReceivedAt) {
			return rows[i].m.ReceivedAt.After(rows[j].m.ReceivedAt)
		}
		return rows[i].seq > rows[j].seq
	})
	out := make([]*models.Message, 0, len(rows))
	for _, r := range rows {
		m := r.m
		out = append(out, &m)
	}
	return out, nil
}

func (f *fakeMessagesRepo) Delete(_ context.Context, owner, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, r := range f.rows {
		if r.m.ID == id && r.m.Owner == owner {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakeMessagesRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

// --- manager ---

type fakeRepoManager struct {
	a *fakeAccountsRepo
	m *fakeMessagesRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{a: newFakeAccountsRepo(), m: &fakeMessagesRepo{}}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Accounts(dbx.DBTX) accounts.Repository      { return m.a }
func (m *fakeRepoManager) Messages(dbx.DBTX) messages.Repository      { return m.m }

// --- constructors ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func testConfig() *config.Config {
	return &config.Config{BcryptCost: bcrypt.MinCost}
}

type fixture struct {
	db       *sql.DB
	mock     sqlmock.Sqlmock
	rm       *fakeRepoManager
	registry *sessions.Registry
	accounts *AccountService
	mailbox  *MailboxService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, mock := newSQLMockDB(t)
	rm := newFakeRepoManager()
	registry := sessions.NewRegistry(sessions.NewMemoryStore())
	return &fixture{
		db:       db,
		mock:     mock,
		rm:       rm,
		registry: registry,
		accounts: NewAccountService(db, rm, registry, testConfig(), nopLogger{}),
		mailbox:  NewMailboxService(db, rm, registry, nopLogger{}),
	}
}

// register creates an account through the service and logs it in.
func (f *fixture) register(t *testing.T, username, password string) string {
	t.Helper()
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	_, err := f.accounts.Register(context.Background(), username, password)
	require.NoError(t, err)

	token, _, err := f.accounts.Login(context.Background(), username, password)
	require.NoError(t, err)
	return token
}
