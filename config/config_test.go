package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TOKEN_SECRET", "secret")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "db.sqlite3", cfg.DatabaseURL)
	assert.Equal(t, 5*time.Minute, cfg.OTPTTL)
	assert.Equal(t, 6, cfg.OTPDigits)
	assert.Zero(t, cfg.TokenTTL)
	assert.Equal(t, "database", cfg.OTPStore)
	assert.Equal(t, "Photo Gallery", cfg.AppName)
	assert.Equal(t, int64(15*1024*1024), cfg.MaxUploadBytes())
}

func TestLoadRequiresTokenSecret(t *testing.T) {
	t.Setenv("TOKEN_SECRET", "")
	_, err := Load()
	assert.ErrorContains(t, err, "TOKEN_SECRET is required")
}

func TestLoadReportsEveryProblem(t *testing.T) {
	t.Setenv("TOKEN_SECRET", "secret")
	t.Setenv("OTP_TTL", "five minutes")
	t.Setenv("OTP_DIGITS", "12")
	t.Setenv("MAIL_PROVIDER", "pigeon")

	_, err := Load()
	require.Error(t, err)
	assert.ErrorContains(t, err, "OTP_TTL")
	assert.ErrorContains(t, err, "OTP_DIGITS must be between 4 and 9")
	assert.ErrorContains(t, err, `MAIL_PROVIDER "pigeon" is not supported`)
}

func TestMailFromFallsBackToSMTPUser(t *testing.T) {
	t.Setenv("TOKEN_SECRET", "secret")
	t.Setenv("SMTP_USER", "bot@example.com")
	t.Setenv("MAIL_FROM", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "bot@example.com", cfg.MailFrom)
}

func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitCSV(" a, ,b "))
	assert.Empty(t, splitCSV(""))
}
