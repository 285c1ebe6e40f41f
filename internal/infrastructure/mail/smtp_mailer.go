package mail

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"myduka.backend/internal/config"
	"myduka.backend/internal/domain/entities"
	"myduka.backend/pkg/logger"
)

var dialAndSend = func(d *gomail.Dialer, m ...*gomail.Message) error {
	return d.DialAndSend(m...)
}

// SMTPMailer delivers email through an SMTP relay
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer creates an SMTP mailer from configuration
func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// Send delivers one message
func (s *SMTPMailer) Send(ctx context.Context, email entities.Email) error {
	if email.To == "" {
		return errors.New("mail: empty recipient")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email.To)
	m.SetHeader("Subject", email.Subject)
	m.SetBody("text/plain", email.Body)

	if err := dialAndSend(s.dialer, m); err != nil {
		return fmt.Errorf("mail: send to %s: %w", email.To, err)
	}
	logger.Debug(ctx, "Email sent", zap.String("to", email.To), zap.String("subject", email.Subject))
	return nil
}

// LogMailer writes messages to the log instead of sending them. Used when no SMTP host is configured.
type LogMailer struct{}

// NewLogMailer creates a log-only mailer
func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

// Send logs the message
func (LogMailer) Send(ctx context.Context, email entities.Email) error {
	logger.Info(ctx, "Email (not sent, SMTP disabled)",
		zap.String("to", email.To),
		zap.String("subject", email.Subject),
		zap.String("body", email.Body),
	)
	return nil
}

// Sender delivers outbound email
type Sender interface {
	Send(ctx context.Context, email entities.Email) error
}

// New picks the SMTP mailer when a host is configured, else the log mailer
func New(cfg config.MailConfig) Sender {
	if cfg.Host == "" {
		return NewLogMailer()
	}
	return NewSMTPMailer(cfg)
}
