// Package mail composes and delivers outbound email over SMTP.
package mail

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"portfolio/internal/config"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Message is an outbound mail to the operator address.
type Message struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
	ReplyTo string `json:"reply_to"`
}

// Sender handles sending emails via SMTP.
type Sender struct {
	cfg     config.MailConfig
	logger  *logrus.Logger
	deliver func(e *email.Email) error
}

// NewSender creates a new email sender.
func NewSender(cfg config.MailConfig, logger *logrus.Logger) *Sender {
	s := &Sender{
		cfg:    cfg,
		logger: logger,
	}
	s.deliver = s.smtpDeliver
	return s
}

// headerValue strips line breaks so a value cannot inject extra headers.
func headerValue(v string) string {
	return strings.TrimSpace(strings.NewReplacer("\r", " ", "\n", " ").Replace(v))
}

// Compose builds the email for msg, addressed from the default sender to
// the configured recipient.
func (s *Sender) Compose(msg Message) *email.Email {
	e := email.NewEmail()
	e.From = s.cfg.DefaultSender
	e.To = []string{s.cfg.Recipient}
	if reply := headerValue(msg.ReplyTo); reply != "" {
		e.ReplyTo = []string{reply}
	}
	e.Subject = headerValue(msg.Subject)
	e.Text = []byte(msg.Body)
	return e
}

// Send delivers msg. The returned error carries transport details and
// must not be shown to end users.
func (s *Sender) Send(msg Message) error {
	e := s.Compose(msg)
	if err := s.deliver(e); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", s.cfg.Recipient, err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	s.logger.Infof("Email sent to %s: %s", s.cfg.Recipient, e.Subject)
	return nil
}

func (s *Sender) smtpDeliver(e *email.Email) error {
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Server)
	}
	if s.cfg.UseTLS {
		return e.SendWithStartTLS(s.cfg.Addr(), auth, &tls.Config{ServerName: s.cfg.Server})
	}
	return e.Send(s.cfg.Addr(), auth)
}
