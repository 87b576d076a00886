package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/mailgate/internal/common"
	"github.com/dmitrijs2005/mailgate/internal/logging"
	"github.com/dmitrijs2005/mailgate/internal/server/archive"
	"github.com/dmitrijs2005/mailgate/internal/server/models"
	"github.com/dmitrijs2005/mailgate/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/mailgate/internal/server/tasks"
)

// Ingest statuses beyond the ones reported to the provider.
const (
	ingestStatusInvalid = "invalid"
	ingestStatusError   = "error"
)

// Envelope is an inbound message as delivered by the mail provider.
type Envelope struct {
	Recipient string
	Sender    string
	Subject   string
	BodyPlain string
}

// IngestResult is the outcome of a successful Ingest call.
type IngestResult struct {
	Status    string
	MessageID string
}

// Forwarder relays a stored message without blocking the caller.
type Forwarder interface {
	ForwardBestEffort(ctx context.Context, m *models.Message, destination string)
}

// IngestMetrics receives ingest and archive counters.
type IngestMetrics interface {
	IngestResult(status string)
	ArchiveResult(err error)
}

// IngestService stores inbound mail in the recipient's mailbox and hands it
// to the forwarding relay when the mailbox has a forwarding address.
type IngestService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	forwarder   Forwarder
	logger      logging.Logger

	archiver       archive.Archiver
	archiveTasks   *tasks.Group
	archiveTimeout time.Duration
	metrics        IngestMetrics

	now   func() time.Time
	newID func() string
}

func NewIngestService(db *sql.DB, m repomanager.RepositoryManager, forwarder Forwarder, logger logging.Logger) *IngestService {
	return &IngestService{
		db:          db,
		repomanager: m,
		forwarder:   forwarder,
		logger:      logger.With("module", "ingest"),
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// WithArchiver enables best-effort archiving of every stored message. Each
// upload runs in group with the given timeout.
func (s *IngestService) WithArchiver(a archive.Archiver, group *tasks.Group, timeout time.Duration) *IngestService {
	if group == nil {
		group = &tasks.Group{}
	}
	s.archiver = a
	s.archiveTasks = group
	s.archiveTimeout = timeout
	return s
}

func (s *IngestService) WithMetrics(m IngestMetrics) *IngestService {
	s.metrics = m
	return s
}

// Ingest stores env in the mailbox named by the local part of its
// recipient. A recipient without a matching account yields
// IngestStatusMailboxNotFound and no writes. An error is returned only for
// an invalid envelope or when the message could not be stored.
func (s *IngestService) Ingest(ctx context.Context, env Envelope) (*IngestResult, error) {
	recipient := strings.TrimSpace(env.Recipient)
	if recipient == "" {
		s.observe(ingestStatusInvalid)
		return nil, common.ErrInvalidEnvelope
	}

	notFound := &IngestResult{Status: common.IngestStatusMailboxNotFound}

	username, err := common.NormalizeUsername(common.LocalPart(recipient))
	if err != nil {
		s.logger.Info(ctx, "mailbox not found", "recipient", recipient)
		s.observe(common.IngestStatusMailboxNotFound)
		return notFound, nil
	}

	account, err := s.repomanager.Accounts(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Info(ctx, "mailbox not found", "recipient", recipient)
			s.observe(common.IngestStatusMailboxNotFound)
			return notFound, nil
		}
		s.observe(ingestStatusError)
		return nil, fmt.Errorf("ingest: account lookup: %w", err)
	}

	msg := &models.Message{
		ID:            s.newID(),
		Owner:         account.Username,
		Subject:       storableText(env.Subject),
		Body:          storableText(env.BodyPlain),
		SenderAddress: storableText(env.Sender),
		ReceivedAt:    s.now().UTC(),
	}

	if err := s.repomanager.Messages(s.db).Create(ctx, msg); err != nil {
		s.observe(ingestStatusError)
		return nil, fmt.Errorf("ingest: store message: %w", err)
	}

	s.logger.Info(ctx, "message stored", "owner", msg.Owner, "message_id", msg.ID)
	s.observe(common.IngestStatusStored)

	if dest, ok := account.ForwardsTo(); ok && s.forwarder != nil {
		s.forwarder.ForwardBestEffort(ctx, msg, dest)
	}

	if s.archiver != nil {
		s.archive(ctx, msg)
	}

	return &IngestResult{Status: common.IngestStatusStored, MessageID: msg.ID}, nil
}

// storableText makes provider-supplied text acceptable to a TEXT column:
// invalid UTF-8 becomes U+FFFD and NUL bytes are dropped.
func storableText(v string) string {
	return strings.ReplaceAll(strings.ToValidUTF8(v, "\uFFFD"), "\x00", "")
}

func (s *IngestService) archive(ctx context.Context, msg *models.Message) {
	s.archiveTasks.Go(ctx, s.archiveTimeout, func(ctx context.Context) {
		err := s.archiver.Archive(ctx, msg)
		if err != nil {
			s.logger.Error(ctx, "message archive failed", "message_id", msg.ID, "error", err)
		}
		if s.metrics != nil {
			s.metrics.ArchiveResult(err)
		}
	})
}

func (s *IngestService) observe(status string) {
	if s.metrics != nil {
		s.metrics.IngestResult(status)
	}
}
