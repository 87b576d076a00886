package server

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/mailgate/internal/logging"
	"github.com/dmitrijs2005/mailgate/internal/server/config"
	"github.com/dmitrijs2005/mailgate/internal/server/repositories/repomanager"
)

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (l nopLogger) With(...any) logging.Logger          { return l }

type stubManager struct {
	repomanager.RepositoryManager
	migrateErr error
	migrated   bool
}

func (m *stubManager) RunMigrations(context.Context, *sql.DB) error {
	m.migrated = true
	return m.migrateErr
}

func stubRepositoryManager(t *testing.T, m *stubManager) {
	t.Helper()
	m.RepositoryManager = repomanager.NewPostgresRepositoryManager()
	orig := newRepositoryManager
	newRepositoryManager = func() repomanager.RepositoryManager { return m }
	t.Cleanup(func() { newRepositoryManager = orig })
}

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.HTTPAddr = "127.0.0.1:0"
	c.GRPCAddr = "127.0.0.1:0"
	c.ForwardProvider = "none"
	return c
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	return db, mock
}

func TestNewApp_Wires(t *testing.T) {
	m := &stubManager{}
	stubRepositoryManager(t, m)
	db, mock := newMockDB(t)
	mock.ExpectPing()

	app, err := newApp(context.Background(), testConfig(), nopLogger{}, db)
	require.NoError(t, err)
	assert.True(t, m.migrated)
	assert.NotNil(t, app.accounts)
	assert.NotNil(t, app.mailbox)
	assert.NotNil(t, app.ingest)
	assert.NotNil(t, app.relay)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewApp_PingFailure(t *testing.T) {
	stubRepositoryManager(t, &stubManager{})
	db, mock := newMockDB(t)
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	_, err := newApp(context.Background(), testConfig(), nopLogger{}, db)
	require.ErrorContains(t, err, "db ping error")
}

func TestNewApp_MigrationFailure(t *testing.T) {
	stubRepositoryManager(t, &stubManager{migrateErr: errors.New("bad sql")})
	db, mock := newMockDB(t)
	mock.ExpectPing()

	_, err := newApp(context.Background(), testConfig(), nopLogger{}, db)
	require.ErrorContains(t, err, "db migration error")
}

func TestNewApp_UnknownProvider(t *testing.T) {
	stubRepositoryManager(t, &stubManager{})
	db, mock := newMockDB(t)
	mock.ExpectPing()

	c := testConfig()
	c.ForwardProvider = "carrier-pigeon"
	_, err := newApp(context.Background(), c, nopLogger{}, db)
	require.ErrorContains(t, err, "forwarding init error")
}

func TestNewApp_ClosesDBOnFailure(t *testing.T) {
	stubRepositoryManager(t, &stubManager{migrateErr: errors.New("bad sql")})
	db, mock := newMockDB(t)
	mock.ExpectPing()
	mock.ExpectClose()

	orig := openDB
	openDB = func(string) (*sql.DB, error) { return db, nil }
	t.Cleanup(func() { openDB = orig })

	_, err := NewApp(testConfig())
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewApp_BadLogBackend(t *testing.T) {
	c := testConfig()
	c.LogBackend = "syslog"
	_, err := NewApp(c)
	require.Error(t, err)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	stubRepositoryManager(t, &stubManager{})
	db, mock := newMockDB(t)
	mock.ExpectPing()
	mock.ExpectClose()

	app, err := newApp(context.Background(), testConfig(), nopLogger{}, db)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	time.Sleep(150 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop after context cancel")
	}
	require.NoError(t, mock.ExpectationsWereMet())
}
