// Package identity resolves the signed-in user's email and derives the
// user id the persistence API keys records by.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrNoIdentity indicates no email could be determined.
	ErrNoIdentity = errors.New("no user identity")
	// ErrInvalidToken indicates the ID token could not be used.
	ErrInvalidToken = errors.New("invalid id token")
)

// Provider supplies the authenticated user's email.
type Provider interface {
	Email(ctx context.Context) (string, error)
}

// Static returns a fixed email.
type Static struct {
	Address string
}

func (s Static) Email(context.Context) (string, error) {
	addr := strings.TrimSpace(s.Address)
	if addr == "" {
		return "", ErrNoIdentity
	}
	return addr, nil
}

// Token reads the email claim of an OIDC ID token. When Secret is set the
// token's HMAC signature is verified; otherwise it is only decoded, and
// verification is left to the issuer that handed it out.
type Token struct {
	Raw    string
	Secret []byte
	Now    func() time.Time
}

func (t Token) Email(context.Context) (string, error) {
	raw := strings.TrimSpace(t.Raw)
	if raw == "" {
		return "", ErrNoIdentity
	}
	now := time.Now
	if t.Now != nil {
		now = t.Now
	}

	claims := jwt.MapClaims{}
	if len(t.Secret) > 0 {
		_, err := jwt.ParseWithClaims(raw, claims, func(tok *jwt.Token) (any, error) {
			if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
			}
			return t.Secret, nil
		}, jwt.WithTimeFunc(now))
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
	} else {
		if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
		exp, err := claims.GetExpirationTime()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
		if exp != nil && now().After(exp.Time) {
			return "", fmt.Errorf("%w: token expired", ErrInvalidToken)
		}
	}

	email, _ := claims["email"].(string)
	if strings.TrimSpace(email) == "" {
		return "", fmt.Errorf("%w: no email claim", ErrNoIdentity)
	}
	return email, nil
}

// First returns the email of the first provider that yields one.
type First []Provider

func (f First) Email(ctx context.Context) (string, error) {
	var errs []error
	for _, p := range f {
		email, err := p.Email(ctx)
		if err == nil {
			return email, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return "", ErrNoIdentity
	}
	return "", errors.Join(errs...)
}

// UserID derives the persistence id for an email: "auth0_" followed by the
// hex of a 32-bit rolling hash over the lower-cased address. The same
// email always maps to the same id.
func UserID(email string) string {
	var h int32
	for _, c := range utf16.Encode([]rune(strings.ToLower(email))) {
		h = (h << 5) - h + int32(c)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return "auth0_" + strconv.FormatInt(v, 16)
}
