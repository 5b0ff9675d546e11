package auth

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// tokenTTL matches the original session length.
const tokenTTL = 7 * 24 * time.Hour

// Tokens issues and verifies the signed bearer tokens both credential
// paths converge on. Constructed once in main and passed down.
type Tokens struct {
	secret []byte
}

// NewTokens builds the token manager. An empty secret is tolerated by
// substituting a random per-process one, which invalidates previously
// issued tokens on restart.
func NewTokens(secret string, log *logrus.Logger) *Tokens {
	if secret == "" {
		buf := make([]byte, 32)
		_, _ = rand.Read(buf)
		secret = hex.EncodeToString(buf)
		log.Warn("JWT_SECRET is not set, using an ephemeral secret; tokens will not survive a restart")
	}
	return &Tokens{secret: []byte(secret)}
}

// Issue signs a token whose subject is the user id.
func (t *Tokens) Issue(userID string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Parse verifies a token and returns its subject. Callers surface every
// failure as the same unauthorized response; no cause is distinguished.
func (t *Tokens) Parse(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}
	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", errors.New("invalid token claims")
	}
	return sub, nil
}
