package weathersdk

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Credentials is the access/refresh token pair issued by the login and
// refresh endpoints. A pair is only usable when both halves are present; a
// lone access token without its refresh token is treated as no credentials.
type Credentials struct {
	AccessToken  string
	RefreshToken string
}

// Valid reports whether both halves of the pair are present.
func (c Credentials) Valid() bool {
	return c.AccessToken != "" && c.RefreshToken != ""
}

// ExpiryGrace is the window before the access token's expiry claim within
// which a proactive refresh is triggered on session resume.
const ExpiryGrace = 5 * time.Minute

// ExpiryParser extracts the expiry instant embedded in an access token. It
// is an interface so the token format stays substitutable; the default
// implementation understands JWTs.
type ExpiryParser interface {
	ExpiresAt(token string) (time.Time, error)
}

// ErrNoExpiry is returned when a token carries no expiry claim.
var ErrNoExpiry = errors.New("weathersdk: token has no expiry claim")

// jwtExpiryParser reads the exp claim of a JWT without verifying the
// signature. The client holds no verification key; the server is the
// authority on token validity, this parse only schedules refreshes.
type jwtExpiryParser struct{}

func (jwtExpiryParser) ExpiresAt(token string) (time.Time, error) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrNoExpiry
	}
	return claims.ExpiresAt.Time, nil
}

// expiringSoon reports whether the token is past its expiry or within the
// grace window of it. Unparseable tokens are reported as expiring so the
// session refreshes rather than sending a token it cannot reason about.
func expiringSoon(parser ExpiryParser, token string, now time.Time) bool {
	exp, err := parser.ExpiresAt(token)
	if err != nil {
		return true
	}
	return !now.Before(exp.Add(-ExpiryGrace))
}
