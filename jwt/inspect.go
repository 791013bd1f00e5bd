package jwt

import (
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// ErrMalformed is returned when the token cannot be decoded as a JWT.
var ErrMalformed = errors.New("malformed token")

// Claims holds the registered claims read from a token. Zero time values
// mean the claim was absent.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Inspect decodes the token's claims WITHOUT verifying the signature.
func Inspect(token string) (*Claims, error) {
	parser := jwtlib.NewParser()
	raw := jwtlib.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	out := &Claims{}
	if sub, err := raw.GetSubject(); err == nil {
		out.Subject = sub
	}
	if exp, err := raw.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	if iat, err := raw.GetIssuedAt(); err == nil && iat != nil {
		out.IssuedAt = iat.Time
	}
	return out, nil
}

// Expired reports whether the token's exp claim lies in the past, allowing
// skew of clock tolerance. Tokens without an exp claim never expire locally.
func (c *Claims) Expired(now time.Time, skew time.Duration) bool {
	if c == nil || c.ExpiresAt.IsZero() {
		return false
	}
	if skew < 0 {
		skew = 0
	}
	return now.Add(-skew).After(c.ExpiresAt)
}
