package service

import (
	"context"
	"errors"
	"html"
	"strings"

	"github.com/resend/resend-go/v2"
)

type ResendSender struct {
	client *resend.Client
	From   string
}

func NewResendSender(apiKey string, from string) *ResendSender {
	if strings.TrimSpace(apiKey) == "" || strings.TrimSpace(from) == "" {
		return &ResendSender{}
	}
	return &ResendSender{
		client: resend.NewClient(apiKey),
		From:   from,
	}
}

func (s *ResendSender) Send(ctx context.Context, to, subject, body string) error {
	if s.client == nil {
		return errors.New("email sender not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	params := &resend.SendEmailRequest{
		From:    s.From,
		To:      []string{to},
		Subject: subject,
		Html:    "<p>" + strings.ReplaceAll(html.EscapeString(body), "\n", "<br>") + "</p>",
		Text:    body,
	}
	_, err := s.client.Emails.Send(params)
	return err
}
