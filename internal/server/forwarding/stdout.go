package forwarding

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// StdoutTransport prints forwarded messages instead of sending them.
// It is meant for local development.
type StdoutTransport struct {
	mu sync.Mutex
	w  io.Writer
}

func NewStdoutTransport() *StdoutTransport {
	return NewStdoutTransportWithWriter(os.Stdout)
}

func NewStdoutTransportWithWriter(w io.Writer) *StdoutTransport {
	return &StdoutTransport{w: w}
}

func (t *StdoutTransport) Name() string {
	return "stdout"
}

func (t *StdoutTransport) Send(_ context.Context, msg *Outbound) error {
	var b strings.Builder

	b.WriteString("========================================\n")
	fmt.Fprintf(&b, "From: %s\n", msg.From)
	fmt.Fprintf(&b, "To: %s\n", msg.To)
	if msg.ReplyTo != "" {
		fmt.Fprintf(&b, "Reply-To: %s\n", msg.ReplyTo)
	}
	fmt.Fprintf(&b, "Subject: %s\n", msg.Subject)
	b.WriteString("Body:\n")
	b.WriteString(msg.Body + "\n")
	b.WriteString("========================================\n")

	t.mu.Lock()
	defer t.mu.Unlock()

	_, err := io.WriteString(t.w, b.String())
	return err
}
