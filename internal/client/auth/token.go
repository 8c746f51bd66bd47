// Package auth inspects the bearer credential locally. The client never holds
// the signing key, so tokens are parsed without signature verification and
// only used to decide when to re-check the session with the server.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/quotekeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of the server's token claims the client looks at.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId,omitempty"`
}

// ParseClaims decodes the claims of a JWT credential. Non-JWT credentials
// yield common.ErrInvalidToken.
func ParseClaims(credential string) (*Claims, error) {
	claims := &Claims{}
	_, _, err := jwt.NewParser().ParseUnverified(credential, claims)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}
	return claims, nil
}

// ExpiresAt returns the exp claim. ok is false for opaque credentials and
// tokens without an expiry.
func ExpiresAt(credential string) (t time.Time, ok bool) {
	claims, err := ParseClaims(credential)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// CheckExpiry returns common.ErrTokenExpired when the credential carries an
// exp claim at or before now. Credentials without one are assumed valid until
// the server says otherwise.
func CheckExpiry(credential string, now time.Time) error {
	exp, ok := ExpiresAt(credential)
	if !ok {
		return nil
	}
	if !now.Before(exp) {
		return common.ErrTokenExpired
	}
	return nil
}

// IsExpired reports whether err came from CheckExpiry on an expired token.
func IsExpired(err error) bool {
	return errors.Is(err, common.ErrTokenExpired)
}
