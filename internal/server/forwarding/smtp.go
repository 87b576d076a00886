package forwarding

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
)

var errStartTLSUnavailable = errors.New("smtp: server does not support STARTTLS")

// SMTPConfig configures an SMTPTransport.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// RequireTLS fails delivery when the server does not offer STARTTLS.
	RequireTLS bool
	// TLSConfig overrides the default TLS settings (ServerName = Host).
	TLSConfig *tls.Config
}

// SMTPTransport submits mail to a relay: it upgrades with STARTTLS when
// offered, authenticates with PLAIN and sends a single recipient.
type SMTPTransport struct {
	cfg    SMTPConfig
	dialer *net.Dialer
	now    func() time.Time
}

func NewSMTPTransport(cfg SMTPConfig) *SMTPTransport {
	return &SMTPTransport{cfg: cfg, dialer: &net.Dialer{}, now: time.Now}
}

func (t *SMTPTransport) Name() string {
	return "smtp"
}

func (t *SMTPTransport) Send(ctx context.Context, msg *Outbound) error {
	if msg.To == "" {
		return errMissingRecipient
	}

	raw, err := Compose(msg, t.now())
	if err != nil {
		return err
	}

	c, err := t.connect(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	if t.cfg.Username != "" {
		if err := c.Auth(sasl.NewPlainClient("", t.cfg.Username, t.cfg.Password)); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := c.SendMail(msg.From, []string{msg.To}, bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return c.Quit()
}

// connect opens a session with the relay. The first connection only reads the
// EHLO extensions: when STARTTLS is offered it is dropped and a second
// connection is upgraded before anything else is sent.
func (t *SMTPTransport) connect(ctx context.Context) (*smtp.Client, error) {
	conn, err := t.dial(ctx)
	if err != nil {
		return nil, err
	}

	c := smtp.NewClient(conn)
	if err := c.Hello("localhost"); err != nil {
		c.Close()
		return nil, fmt.Errorf("smtp hello: %w", err)
	}

	if ok, _ := c.Extension("STARTTLS"); !ok {
		if t.cfg.RequireTLS {
			c.Close()
			return nil, errStartTLSUnavailable
		}
		return c, nil
	}
	_ = c.Quit()

	tlsConfig := t.cfg.TLSConfig
	if tlsConfig == nil {
		tlsConfig = &tls.Config{ServerName: t.cfg.Host}
	}

	conn, err = t.dial(ctx)
	if err != nil {
		return nil, err
	}
	c, err = smtp.NewClientStartTLS(conn, tlsConfig)
	if err != nil {
		return nil, fmt.Errorf("smtp starttls: %w", err)
	}
	return c, nil
}

func (t *SMTPTransport) dial(ctx context.Context) (net.Conn, error) {
	addr := net.JoinHostPort(t.cfg.Host, strconv.Itoa(t.cfg.Port))
	conn, err := t.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("smtp dial %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	return conn, nil
}
