// Package sender реализует отправку писем с одноразовыми кодами через SMTP.
package sender

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/studentms/studentms/internal/lib/sl"
	"github.com/studentms/studentms/internal/lib/smtp"
)

// SenderService отправляет письма через SMTP транспорт.
// Одна попытка на вызов, без повторов: результат доставки наблюдает вызывающая сторона.
type SenderService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(log *slog.Logger, transport smtp.TransportInterface) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// SendOTPEmail отправляет письмо с кодом подтверждения.
// Срок действия в тексте письма совпадает со сроком жизни кода в хранилище.
func (s *SenderService) SendOTPEmail(email, code string, ttl time.Duration) error {
	subject := "Your OTP Code - StudentMS"
	bodyText := fmt.Sprintf(
		"Your verification code is %s.\n\nThis code expires in %d minutes.\n\nIf you didn't request this code, please ignore this email.",
		code, int(ttl.Minutes()))

	return s.sendEmail([]string{email}, subject, bodyText)
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetFrom(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.GetFrom()); err != nil {
		s.log.Error("failed to set MAIL FROM", "from", s.transport.GetFrom(), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", "recipient", addr, sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", "to", to)
	return nil
}
