// Package forwarding relays stored messages to their owners' external
// addresses. Delivery is best effort: at most one attempt, no retry, and
// failures never reach the caller.
package forwarding

import (
	"context"

	"github.com/dmitrijs2005/mailgate/internal/common"
	"github.com/dmitrijs2005/mailgate/internal/server/models"
)

// Transport delivers one outbound message.
type Transport interface {
	Send(ctx context.Context, msg *Outbound) error
	Name() string
}

// Outbound is a forwarded copy of a stored message.
type Outbound struct {
	From      string
	To        string
	ReplyTo   string
	Subject   string
	Body      string
	MessageID string
}

// NewOutbound builds the forwarded form of m addressed to destination.
func NewOutbound(m *models.Message, from, destination string) *Outbound {
	return &Outbound{
		From:      from,
		To:        destination,
		ReplyTo:   m.SenderAddress,
		Subject:   ForwardSubject(m.Subject),
		Body:      m.Body,
		MessageID: m.ID,
	}
}

// ForwardSubject returns the subject line used on a forwarded message.
func ForwardSubject(subject string) string {
	if subject == "" {
		return common.ForwardSubjectPrefix + common.ForwardEmptySubject
	}
	return common.ForwardSubjectPrefix + subject
}
