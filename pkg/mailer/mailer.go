// Package mailer delivers OTP codes by email. Delivery failure never
// invalidates an already persisted code; callers log and move on.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"time"

	"finance-tracker/pkg/utils"

	"go.uber.org/zap"
)

// ErrNotConfigured signals that no SMTP host is set; callers may surface the
// code through another channel instead.
var ErrNotConfigured = errors.New("smtp is not configured")

type Mailer interface {
	SendOTP(ctx context.Context, email, code string, ttl time.Duration) error
}

// New returns the SMTP mailer, or a log-only stand-in when SMTP is not
// configured.
func New(config utils.EmailConfig, log *zap.Logger) Mailer {
	if config.Host == "" {
		return &logMailer{log: log}
	}
	return &smtpMailer{config: config, log: log}
}

type smtpMailer struct {
	config utils.EmailConfig
	log    *zap.Logger
}

func (m *smtpMailer) SendOTP(ctx context.Context, email, code string, ttl time.Duration) error {
	addr := fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Your login code\r\n\r\n"+
		"Your one-time code is %s. It expires in %d minutes.\r\n",
		m.config.From, email, code, int(ttl.Minutes()))

	var auth smtp.Auth
	if m.config.User != "" {
		auth = smtp.PlainAuth("", m.config.User, m.config.Password, m.config.Host)
	}

	if err := smtp.SendMail(addr, auth, m.config.From, []string{email}, []byte(msg)); err != nil {
		m.log.Warn("Failed to send OTP email",
			zap.Error(err),
			zap.String("email", email),
		)
		return fmt.Errorf("send OTP email to %s: %w", email, err)
	}

	m.log.Info("OTP email sent", zap.String("email", email))
	return nil
}

type logMailer struct {
	log *zap.Logger
}

func (m *logMailer) SendOTP(ctx context.Context, email, code string, ttl time.Duration) error {
	m.log.Info("SMTP not configured, OTP not emailed",
		zap.String("email", email),
		zap.Duration("ttl", ttl),
	)
	return ErrNotConfigured
}
