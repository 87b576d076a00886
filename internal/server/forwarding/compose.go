package forwarding

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-message"
	"github.com/emersion/go-message/mail"
)

// Compose renders msg as an RFC 5322 text/plain message.
func Compose(msg *Outbound, now time.Time) ([]byte, error) {
	var h mail.Header

	h.SetDate(now)
	h.SetAddressList("From", []*mail.Address{{Address: msg.From}})
	h.SetAddressList("To", []*mail.Address{{Address: msg.To}})
	if replyTo := replyToHeader(msg.ReplyTo); replyTo != "" {
		if addrs, err := mail.ParseAddressList(replyTo); err == nil && len(addrs) > 0 {
			h.SetAddressList("Reply-To", addrs)
		} else {
			h.Set("Reply-To", replyTo)
		}
	}
	h.SetSubject(msg.Subject)
	if err := h.GenerateMessageID(); err != nil {
		return nil, fmt.Errorf("message id: %w", err)
	}
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	h.Set("Content-Transfer-Encoding", "quoted-printable")

	var buf bytes.Buffer
	w, err := message.CreateWriter(&buf, h.Header)
	if err != nil {
		return nil, fmt.Errorf("failed to create message writer: %w", err)
	}
	if _, err := io.WriteString(w, msg.Body); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to write message body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to close message writer: %w", err)
	}

	return buf.Bytes(), nil
}

// replyToHeader strips line breaks so a hostile sender value cannot inject
// extra header fields.
func replyToHeader(s string) string {
	s = strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
	return strings.TrimSpace(s)
}
