package forwarding

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/mailgate/internal/server/config"
)

// NewTransport picks the transport named by cfg.ForwardProvider. It returns
// a nil Transport when forwarding is disabled: no provider configured, or
// SMTP selected without credentials.
func NewTransport(ctx context.Context, cfg *config.Config) (Transport, error) {
	switch cfg.ForwardProvider {
	case "", "none":
		return nil, nil
	case "smtp":
		if !cfg.SMTPConfigured() {
			return nil, nil
		}
		return NewSMTPTransport(SMTPConfig{
			Host:       cfg.SMTPHost,
			Port:       cfg.SMTPPort,
			Username:   cfg.SMTPUser,
			Password:   cfg.SMTPPassword,
			RequireTLS: cfg.SMTPRequireTLS,
		}), nil
	case "ses":
		t, err := NewSESTransport(ctx, SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretAccessKey,
		})
		if err != nil {
			return nil, err
		}
		return t, nil
	case "stdout":
		return NewStdoutTransport(), nil
	default:
		return nil, fmt.Errorf("unknown forwarding provider %q", cfg.ForwardProvider)
	}
}
