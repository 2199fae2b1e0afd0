package mailer

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// SMTP delivers e-vouchers as mail attachments
type SMTP struct {
	from   string
	send   func(m ...*gomail.Message) error
	logger *zap.Logger
}

// NewSMTP creates a mailer that dials the server for every message
func NewSMTP(host string, port int, username, password string, logger *zap.Logger) *SMTP {
	dialer := gomail.NewDialer(host, port, username, password)
	return &SMTP{
		from:   username,
		send:   dialer.DialAndSend,
		logger: logger,
	}
}

// Send mails body to a single recipient with one attachment
func (s *SMTP) Send(ctx context.Context, to, subject, body, filename string, attachment []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	m.Attach(filename, gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(attachment)
		return err
	}))

	if err := s.send(m); err != nil {
		s.logger.Error("Failed to send mail", zap.String("to", to), zap.Error(err))
		return fmt.Errorf("send mail to %s: %w", to, err)
	}

	s.logger.Info("Mail sent", zap.String("to", to), zap.String("attachment", filename))
	return nil
}
