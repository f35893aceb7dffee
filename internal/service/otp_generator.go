package service

import (
	"crypto/rand"
	"io"
	"math/big"
	"time"

	"github.com/pquerna/otp"
)

type OTPGenerator struct {
	Digits otp.Digits
	TTL    time.Duration
	Clock  Clock
	// Random defaults to crypto/rand.
	Random io.Reader
}

func NewOTPGenerator(digits int, ttl time.Duration, clock Clock) *OTPGenerator {
	return &OTPGenerator{
		Digits: otp.Digits(digits),
		TTL:    ttl,
		Clock:  clock,
	}
}

// Generate draws a code uniformly from [0, 10^digits) and zero pads it.
func (g *OTPGenerator) Generate() (string, time.Time, error) {
	digits := g.digits()
	upper := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits.Length())), nil)

	random := g.Random
	if random == nil {
		random = rand.Reader
	}
	n, err := rand.Int(random, upper)
	if err != nil {
		return "", time.Time{}, err
	}
	return digits.Format(int32(n.Int64())), g.now().Add(g.ttl()), nil
}

func (g *OTPGenerator) digits() otp.Digits {
	if g.Digits == 0 {
		return otp.DigitsSix
	}
	return g.Digits
}

func (g *OTPGenerator) ttl() time.Duration {
	if g.TTL <= 0 {
		return 5 * time.Minute
	}
	return g.TTL
}

func (g *OTPGenerator) now() time.Time {
	if g.Clock == nil {
		return time.Now()
	}
	return g.Clock.Now()
}
