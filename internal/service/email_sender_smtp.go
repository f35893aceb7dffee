package service

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"
)

type SMTPSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string

	// sendMail is swapped in tests.
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPSender(host string, port int, user, password, from string) *SMTPSender {
	if from == "" {
		from = user
	}
	return &SMTPSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		sendMail: smtp.SendMail,
	}
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	if strings.TrimSpace(s.Host) == "" || strings.TrimSpace(s.From) == "" {
		return errors.New("smtp sender not configured")
	}
	message := buildPlainMessage(s.From, to, subject, body)

	var auth smtp.Auth
	if s.User != "" {
		auth = smtp.PlainAuth("", s.User, s.Password, s.Host)
	}
	sendMail := s.sendMail
	if sendMail == nil {
		sendMail = smtp.SendMail
	}

	done := make(chan error, 1)
	go func() {
		done <- sendMail(fmt.Sprintf("%s:%d", s.Host, s.Port), auth, s.From, []string{to}, message)
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func buildPlainMessage(from, to, subject, body string) []byte {
	headers := []string{
		"From: " + stripNewlines(from),
		"To: " + stripNewlines(to),
		"Subject: " + stripNewlines(subject),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		strings.ReplaceAll(body, "\n", "\r\n"),
	}
	return []byte(strings.Join(headers, "\r\n"))
}

func stripNewlines(value string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(value)
}
