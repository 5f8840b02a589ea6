package mailer

import (
	"fmt"
	"net/smtp"

	"foodie-api/config"
)

// Mailer sends plain-text mail over SMTP.
type Mailer struct {
	cfg config.SMTP
}

func New(cfg config.SMTP) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) Send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		m.cfg.From, to, subject, body)

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	addr := m.cfg.Host + ":" + m.cfg.Port

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// SendOTP mails a password-reset code.
func (m *Mailer) SendOTP(to, otp string) error {
	body := fmt.Sprintf("Your OTP for password reset is: %s. It is valid for 10 minutes.", otp)
	return m.Send(to, "Password Reset OTP - Foodie", body)
}
