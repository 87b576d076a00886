package forwarding

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStdoutTransport_Send(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStdoutTransportWithWriter(&buf)
	assert.Equal(t, "stdout", tr.Name())

	err := tr.Send(context.Background(), &Outbound{
		From:    "noreply@estrogen.email",
		To:      "me@x.com",
		ReplyTo: "x@y.com",
		Subject: "[Fwd] Hi",
		Body:    "hello",
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "From: noreply@estrogen.email\n")
	assert.Contains(t, out, "To: me@x.com\n")
	assert.Contains(t, out, "Reply-To: x@y.com\n")
	assert.Contains(t, out, "Subject: [Fwd] Hi\n")
	assert.Contains(t, out, "hello\n")
}
