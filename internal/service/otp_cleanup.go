package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// StartOTPCleanup purges OTP records that expired more than retention ago,
// once per interval, until ctx is cancelled.
func StartOTPCleanup(ctx context.Context, auth *AuthService, retention, interval time.Duration, logger *logrus.Logger) {
	if retention <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := auth.PurgeExpiredOTPs(ctx, retention)
				if err != nil {
					logger.WithError(err).Warn("otp cleanup failed")
					continue
				}
				if removed > 0 {
					logger.WithField("removed", removed).Info("otp cleanup")
				}
			}
		}
	}()
}
