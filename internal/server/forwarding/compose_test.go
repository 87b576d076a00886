package forwarding

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-message"
	"github.com/emersion/go-message/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/mailgate/internal/server/models"
)

func parse(t *testing.T, raw []byte) (mail.Header, string) {
	t.Helper()
	e, err := message.Read(bytes.NewReader(raw))
	require.NoError(t, err)
	body, err := io.ReadAll(e.Body)
	require.NoError(t, err)
	return mail.Header{Header: e.Header}, string(body)
}

func TestForwardSubject(t *testing.T) {
	assert.Equal(t, "[Fwd] Hi", ForwardSubject("Hi"))
	assert.Equal(t, "[Fwd] (No Subject)", ForwardSubject(""))
	assert.Equal(t, "[Fwd]    ", ForwardSubject("   "))
}

func TestNewOutbound(t *testing.T) {
	m := &models.Message{ID: "id-1", Owner: "alice", Subject: "", Body: "hello", SenderAddress: "x@y.com"}
	out := NewOutbound(m, "noreply@estrogen.email", "me@x.com")

	assert.Equal(t, "noreply@estrogen.email", out.From)
	assert.Equal(t, "me@x.com", out.To)
	assert.Equal(t, "x@y.com", out.ReplyTo)
	assert.Equal(t, "[Fwd] (No Subject)", out.Subject)
	assert.Equal(t, "hello", out.Body)
	assert.Equal(t, "id-1", out.MessageID)
}

func TestCompose_Headers(t *testing.T) {
	now := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	raw, err := Compose(&Outbound{
		From:    "noreply@estrogen.email",
		To:      "me@x.com",
		ReplyTo: "x@y.com",
		Subject: "[Fwd] Привет",
		Body:    "hello\nсвет",
	}, now)
	require.NoError(t, err)

	h, body := parse(t, raw)

	from, err := h.AddressList("From")
	require.NoError(t, err)
	require.Len(t, from, 1)
	assert.Equal(t, "noreply@estrogen.email", from[0].Address)

	to, err := h.AddressList("To")
	require.NoError(t, err)
	require.Len(t, to, 1)
	assert.Equal(t, "me@x.com", to[0].Address)

	replyTo, err := h.AddressList("Reply-To")
	require.NoError(t, err)
	require.Len(t, replyTo, 1)
	assert.Equal(t, "x@y.com", replyTo[0].Address)

	subject, err := h.Subject()
	require.NoError(t, err)
	assert.Equal(t, "[Fwd] Привет", subject)

	date, err := h.Date()
	require.NoError(t, err)
	assert.True(t, now.Equal(date))

	id, err := h.MessageID()
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	assert.Equal(t, "hello\nсвет", strings.ReplaceAll(body, "\r\n", "\n"))
}

func TestCompose_NoReplyToWhenSenderEmpty(t *testing.T) {
	raw, err := Compose(&Outbound{From: "a@b.c", To: "d@e.f", Subject: "[Fwd] s"}, time.Now())
	require.NoError(t, err)

	h, body := parse(t, raw)
	assert.False(t, h.Has("Reply-To"))
	assert.Empty(t, body)
}

func TestCompose_HeaderInjectionNeutralized(t *testing.T) {
	raw, err := Compose(&Outbound{
		From:    "a@b.c",
		To:      "d@e.f",
		ReplyTo: "x@y.com\r\nBcc: victim@z.com",
		Subject: "[Fwd] line1\r\nBcc: victim@z.com",
		Body:    "b",
	}, time.Now())
	require.NoError(t, err)

	h, _ := parse(t, raw)
	assert.False(t, h.Has("Bcc"))
}
