// Package mailer sends e-mail over SMTP with gomail and builds the notices
// requesters receive when their session request is decided.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// ErrNoRecipient is returned when an e-mail has no To address.
var ErrNoRecipient = errors.New("email has no recipient")

// Config holds SMTP and sender settings.
type Config struct {
	Host     string
	Port     int
	User     string
	Pass     string
	From     string
	FromName string
	SiteName string
	BaseURL  string
}

// Email is one outgoing message with text and HTML bodies.
type Email struct {
	To       string
	ToName   string
	Subject  string
	TextBody string
	HTMLBody string
}

// Mailer delivers Email values.
type Mailer struct {
	cfg  Config
	send func(msgs ...*gomail.Message) error
	log  *zap.Logger
}

// New creates a Mailer that dials the configured SMTP server for every
// send.
func New(cfg Config, log *zap.Logger) *Mailer {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass)
	return &Mailer{cfg: cfg, send: d.DialAndSend, log: log}
}

// NewWithSender creates a Mailer that hands messages to s.
func NewWithSender(cfg Config, s gomail.Sender, log *zap.Logger) *Mailer {
	return &Mailer{
		cfg: cfg,
		send: func(msgs ...*gomail.Message) error {
			return gomail.Send(s, msgs...)
		},
		log: log,
	}
}

// LogSender returns a sender that only logs. Used when mail is disabled.
func LogSender(log *zap.Logger) gomail.Sender {
	return gomail.SendFunc(func(from string, to []string, _ io.WriterTo) error {
		log.Info("mail disabled; message not sent",
			zap.String("from", from),
			zap.Strings("to", to))
		return nil
	})
}

// Config returns the mailer's settings.
func (m *Mailer) Config() Config {
	return m.cfg
}

// Send delivers e.
func (m *Mailer) Send(ctx context.Context, e Email) error {
	if e.To == "" {
		return ErrNoRecipient
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.cfg.From, m.cfg.FromName)
	if e.ToName != "" {
		msg.SetAddressHeader("To", e.To, e.ToName)
	} else {
		msg.SetHeader("To", e.To)
	}
	msg.SetHeader("Subject", e.Subject)
	msg.SetBody("text/plain", e.TextBody)
	if e.HTMLBody != "" {
		msg.AddAlternative("text/html", e.HTMLBody)
	}

	if err := m.send(msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", e.To, err)
	}
	m.log.Debug("mail sent", zap.String("to", e.To), zap.String("subject", e.Subject))
	return nil
}
