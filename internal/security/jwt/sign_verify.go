package jwtutil

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Signer issues and verifies HS256 access tokens.
type Signer struct {
	secret    []byte
	ttl       time.Duration
	clockSkew time.Duration
	now       func() time.Time
}

func NewSigner(secret string, ttl, clockSkew time.Duration) *Signer {
	return &Signer{secret: []byte(secret), ttl: ttl, clockSkew: clockSkew, now: time.Now}
}

// Sign returns (tokenString, claims).
func (s *Signer) Sign(userID int64) (string, AccessClaims, error) {
	jti, err := randJTI()
	if err != nil {
		return "", AccessClaims{}, err
	}
	claims := NewAccessClaims(userID, jti, s.now(), s.ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	str, err := t.SignedString(s.secret)
	return str, claims, err
}

// Parse verifies HS256 signature and leeway, returning claims.
func (s *Signer) Parse(tokenStr string) (*AccessClaims, error) {
	parser := jwt.NewParser(
		jwt.WithLeeway(s.clockSkew),
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	token, err := parser.ParseWithClaims(tokenStr, &AccessClaims{}, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid || claims.ID == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func randJTI() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}
