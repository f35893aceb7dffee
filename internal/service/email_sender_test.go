package service

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMTPSenderBuildsMessage(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte

	sender := NewSMTPSender("smtp.example.com", 587, "bot@example.com", "secret", "")
	sender.sendMail = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	err := sender.Send(context.Background(), "a@x.com", "Your Photo Gallery OTP\r\nBcc: evil@x.com", "line one\nline two")
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "bot@example.com", gotFrom)
	assert.Equal(t, []string{"a@x.com"}, gotTo)

	message := string(gotMsg)
	assert.Contains(t, message, "Subject: Your Photo Gallery OTPBcc: evil@x.com\r\n")
	assert.NotContains(t, message, "\r\nBcc:")
	assert.True(t, strings.HasSuffix(message, "line one\r\nline two"))
}

func TestSMTPSenderReturnsTransportError(t *testing.T) {
	sender := NewSMTPSender("smtp.example.com", 587, "", "", "bot@example.com")
	sender.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}
	assert.EqualError(t, sender.Send(context.Background(), "a@x.com", "s", "b"), "connection refused")
}

func TestSMTPSenderHonoursContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	sender := NewSMTPSender("smtp.example.com", 587, "", "", "bot@example.com")
	sender.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		<-release
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, sender.Send(ctx, "a@x.com", "s", "b"), context.DeadlineExceeded)
}

func TestSMTPSenderRequiresConfiguration(t *testing.T) {
	sender := NewSMTPSender("", 587, "", "", "")
	assert.Error(t, sender.Send(context.Background(), "a@x.com", "s", "b"))
}

func TestLogSenderWritesEntry(t *testing.T) {
	logger, hook := test.NewNullLogger()
	require.NoError(t, LogSender{Logger: logger}.Send(context.Background(), "a@x.com", "subject", "body"))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "a@x.com", entry.Data["to"])
	assert.Equal(t, "subject", entry.Data["subject"])
}
