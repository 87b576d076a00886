// Package server wires the mailgate server: configuration, logging, the
// PostgreSQL store, the session registry, the forwarding relay and the
// HTTP and gRPC front ends. It also handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dmitrijs2005/mailgate/internal/logging"
	"github.com/dmitrijs2005/mailgate/internal/server/archive"
	"github.com/dmitrijs2005/mailgate/internal/server/config"
	"github.com/dmitrijs2005/mailgate/internal/server/forwarding"
	"github.com/dmitrijs2005/mailgate/internal/server/httpapi"
	"github.com/dmitrijs2005/mailgate/internal/server/metrics"
	"github.com/dmitrijs2005/mailgate/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/mailgate/internal/server/services"
	"github.com/dmitrijs2005/mailgate/internal/server/sessions"
	"github.com/dmitrijs2005/mailgate/internal/server/tasks"

	gs "github.com/dmitrijs2005/mailgate/internal/server/grpc"
)

const (
	startupTimeout = 30 * time.Second
	drainTimeout   = 30 * time.Second
)

// Test seams.
var (
	openDB = func(dsn string) (*sql.DB, error) {
		return sql.Open("pgx", dsn)
	}
	newRepositoryManager = repomanager.NewPostgresRepositoryManager
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	metrics *metrics.Metrics

	accounts *services.AccountService
	mailbox  *services.MailboxService
	ingest   *services.IngestService

	relay        *forwarding.Relay
	archiveTasks *tasks.Group
}

// NewApp builds every component from c. It fails when the database cannot
// be reached or migrated, or when the forwarding or archive backends are
// misconfigured.
func NewApp(c *config.Config) (*App, error) {

	logger, err := logging.New(os.Stdout, logging.Options{Level: c.LogLevel, Format: c.LogFormat, Backend: c.LogBackend})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app, err := newApp(ctx, c, logger, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger, db *sql.DB) (*App, error) {
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := newRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	registry := sessions.NewRegistry(sessions.NewMemoryStore())
	m := metrics.New(registry.Active)

	transport, err := forwarding.NewTransport(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("forwarding init error: %w", err)
	}
	if transport == nil {
		logger.Warn(ctx, "forwarding transport disabled, forwarded mail will be skipped", "provider", c.ForwardProvider)
	} else {
		logger.Info(ctx, "forwarding transport ready", "transport", transport.Name())
	}

	sink := forwarding.MultiSink{
		forwarding.NewLogSink(logger.With("module", "forwarding")),
		forwarding.SinkFunc(func(_ context.Context, r forwarding.Result) {
			m.ForwardResult(string(r.Outcome), r.Duration)
		}),
	}
	relay := forwarding.NewRelay(transport, c.ForwardFromAddress(), c.ForwardTimeout, sink, &tasks.Group{})

	ingest := services.NewIngestService(db, rm, relay, logger).WithMetrics(m)

	archiveTasks := &tasks.Group{}
	if c.ArchiveBucket != "" {
		archiver, err := archive.NewS3Archiver(ctx, archive.S3Config{
			Bucket:       c.ArchiveBucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
		})
		if err != nil {
			return nil, fmt.Errorf("archive init error: %w", err)
		}
		ingest.WithArchiver(archiver, archiveTasks, c.ForwardTimeout)
		logger.Info(ctx, "message archive enabled", "bucket", c.ArchiveBucket)
	}

	return &App{
		config:       c,
		logger:       logger,
		db:           db,
		metrics:      m,
		accounts:     services.NewAccountService(db, rm, registry, c, logger),
		mailbox:      services.NewMailboxService(db, rm, registry, logger),
		ingest:       ingest,
		relay:        relay,
		archiveTasks: archiveTasks,
	}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := gs.NewGRPCServer(app.config.GRPCAddr, app.logger, app.accounts, app.mailbox)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "gRPC server failed", "error", err)
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewServer(app.config.HTTPAddr, app.logger, app.ingest, app.metrics.Handler(), app.config.WebhookMaxBytes)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "HTTP server failed", "error", err)
		cancelFunc()
	}
}

// Run serves until ctx is cancelled, a signal arrives or a server fails.
// It then waits for in-flight forwarding and archive tasks and closes the
// database.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.shutdown()
}

func (app *App) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()

	if err := app.relay.Wait(ctx); err != nil {
		app.logger.Warn(ctx, "forwarding tasks still running at shutdown", "error", err)
	}
	if err := app.archiveTasks.Wait(ctx); err != nil {
		app.logger.Warn(ctx, "archive tasks still running at shutdown", "error", err)
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close failed", "error", err)
	}

	app.logger.Info(ctx, "Stopped")
}
