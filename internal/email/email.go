package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/config"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/logger"
)

// Sender delivers operational notifications over SMTP. Sends are
// synchronous; callers that cannot block should go through the outbox.
type Sender interface {
	Send(to, subject, htmlBody string) error
}

type smtpSender struct {
	dialer *gomail.Dialer
	from   string
	logger *logger.Logger
}

func NewSMTPSender(cfg *config.SMTPConfig, log *logger.Logger) Sender {
	return &smtpSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: log.WithComponent("email"),
	}
}

func (s *smtpSender) Send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	s.logger.Debug("email sent", "to", to, "subject", subject)
	return nil
}

// NopSender discards all mail; used when SMTP is not configured.
type NopSender struct{}

func (NopSender) Send(string, string, string) error { return nil }
