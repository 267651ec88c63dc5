package notificator

import (
	"fmt"
	"net/smtp"
	"strconv"

	"github.com/latinum-ai/mercator/pkg/logger"
)

type EmailNotificator struct {
	logger *logger.Logger

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPSender   string

	SMTPAuth smtp.Auth
}

func NewEmailNotificator(logger *logger.Logger, SMTPHost string, SMTPPort int, SMTPUser string, SMTPPassword string, SMTPSender string) *EmailNotificator {
	auth := smtp.PlainAuth(
		"",
		SMTPUser,
		SMTPPassword,
		SMTPHost,
	)

	return &EmailNotificator{
		logger:       logger,
		SMTPAuth:     auth,
		SMTPHost:     SMTPHost,
		SMTPPort:     SMTPPort,
		SMTPUser:     SMTPUser,
		SMTPPassword: SMTPPassword,
		SMTPSender:   SMTPSender,
	}
}

// Send delivers a single HTML email over SMTP.
func (e *EmailNotificator) Send(to, subject, htmlBody string) error {
	addr := fmt.Sprintf("%s:%s", e.SMTPHost, strconv.Itoa(e.SMTPPort))
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		e.SMTPSender,
		to,
		subject,
		htmlBody,
	)
	if err := smtp.SendMail(addr, e.SMTPAuth, e.SMTPSender, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
