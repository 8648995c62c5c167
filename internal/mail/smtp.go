package mail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"restaurantadmin/internal/config"
)

const activationSubject = "Activate your Account"

var ErrNotConfigured = errors.New("mail: smtp not configured")

var activationTemplate = template.Must(template.New("activation").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; background: #f6f7fb; color: #1f2937;">
  <div style="max-width: 520px; margin: 24px auto; padding: 20px; background: #ffffff; border-radius: 12px;">
    <h2>Welcome, {{.Name}}</h2>
    <p>Use the code below to activate your account. It expires in 5 minutes.</p>
    <div style="font-size: 28px; font-weight: bold; letter-spacing: 6px;">{{.Code}}</div>
    <p style="font-size: 12px; color: #6b7280;">If you did not sign up, ignore this email.</p>
  </div>
</body>
</html>`))

// SMTPSender delivers activation codes. send is swapped out in tests.
type SMTPSender struct {
	cfg    config.MailConfig
	logger zerolog.Logger
	send   func(*gomail.Message) error
}

func NewSMTPSender(cfg config.MailConfig, logger zerolog.Logger) *SMTPSender {
	s := &SMTPSender{cfg: cfg, logger: logger}
	s.send = func(m *gomail.Message) error {
		d := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
		return d.DialAndSend(m)
	}
	return s
}

func (s *SMTPSender) SendActivation(ctx context.Context, a Activation) error {
	if s.cfg.SMTPHost == "" || s.cfg.FromEmail == "" {
		return ErrNotConfigured
	}
	if strings.TrimSpace(a.Email) == "" {
		return fmt.Errorf("mail: empty recipient")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := RenderActivation(a)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.FromEmail)
	m.SetHeader("To", a.Email)
	m.SetHeader("Subject", activationSubject)
	m.SetBody("text/html", body)

	if err := s.send(m); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	s.logger.Info().Str("to", a.Email).Msg("activation email sent")
	return nil
}

func RenderActivation(a Activation) (string, error) {
	var buf bytes.Buffer
	if err := activationTemplate.Execute(&buf, a); err != nil {
		return "", fmt.Errorf("render activation mail: %w", err)
	}
	return buf.String(), nil
}
