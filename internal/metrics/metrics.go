package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// OTP outcomes recorded by the authentication flow.
const (
	OTPRequested      = "requested"
	OTPDeliveryFailed = "delivery_failed"
	OTPConsumed       = "consumed"
	OTPExpired        = "expired"
	OTPMismatched     = "mismatched"
	OTPNotFound       = "not_found"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photogallery_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photogallery_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2, 5},
		},
		[]string{"method", "route"},
	)

	OTPOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photogallery_otp_outcomes_total",
			Help: "OTP requests and verification results",
		},
		[]string{"outcome"},
	)

	RateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photogallery_rate_limited_total",
			Help: "Requests rejected by the per-IP rate limiter",
		},
		[]string{"route"},
	)

	OTPPurged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photogallery_otp_purged_total",
			Help: "Expired OTP records removed by the cleanup job",
		},
	)
)
