package mailer

import (
	"fmt"

	"github.com/taskforge-dev/taskforge/internal/config"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// SMTPMailer implements Mailer over gomail.
type SMTPMailer struct {
	dialer     *gomail.Dialer
	from       string
	senderName string
	logger     *zap.Logger
}

func NewSMTPMailer(cfg config.SMTPConfig, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{
		dialer:     gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:       cfg.From,
		senderName: cfg.SenderName,
		logger:     logger.Named("mailer"),
	}
}

func (m *SMTPMailer) SendVerificationEmail(toEmail, toName, code string) error {
	body := fmt.Sprintf(`<p>Hello %s,</p>
<p>Welcome! Your verification code is: <b>%s</b></p>
<p>If you did not create this account, please ignore this email.</p>`, toName, code)

	return m.send(toEmail, "Verify your email address", body)
}

func (m *SMTPMailer) SendPasswordResetEmail(toEmail, toName, code string) error {
	body := fmt.Sprintf(`<p>Hello %s,</p>
<p>Your password reset code is: <b>%s</b></p>
<p>This code expires in one hour. If you did not request a reset, please ignore this email.</p>`, toName, code)

	return m.send(toEmail, "Reset your password", body)
}

func (m *SMTPMailer) send(toEmail, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.from, m.senderName)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.logger.Error("failed to send email",
			zap.String("to", toEmail),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return err
	}

	return nil
}
