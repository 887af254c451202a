package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"

	"github.com/HSouheill/yoga_blog_backend/security"
)

const adminSubject = "admin"

var (
	ErrInvalidPinFormat = security.ErrInvalidPinFormat
	ErrIncorrectPin     = errors.New("incorrect pin")
	ErrInvalidToken     = errors.New("invalid or expired admin token")
)

// AdminClaims for the admin session token
type AdminClaims struct {
	jwt.StandardClaims
}

// AdminGate is the shared-PIN check separating the admin from visitors
type AdminGate struct {
	pin     string
	pinHash string
	secret  []byte
	ttl     time.Duration
	now     func() time.Time
}

// NewAdminGate builds a gate from a plaintext PIN or a bcrypt hash (hash wins)
func NewAdminGate(pin, pinHash, secret string, ttl time.Duration) (*AdminGate, error) {
	if pinHash == "" && !security.ValidPinFormat(pin) {
		return nil, ErrInvalidPinFormat
	}
	if secret == "" {
		return nil, errors.New("admin token secret is required")
	}
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &AdminGate{
		pin:     pin,
		pinHash: pinHash,
		secret:  []byte(secret),
		ttl:     ttl,
		now:     time.Now,
	}, nil
}

// Verify checks a submitted PIN
func (g *AdminGate) Verify(pin string) error {
	if !security.ValidPinFormat(pin) {
		return ErrInvalidPinFormat
	}
	if g.pinHash != "" {
		if !security.PinMatchesHash(pin, g.pinHash) {
			return ErrIncorrectPin
		}
		return nil
	}
	if !security.PinMatches(pin, g.pin) {
		return ErrIncorrectPin
	}
	return nil
}

// IssueToken signs a short-lived admin session token
func (g *AdminGate) IssueToken() (string, time.Time, error) {
	now := g.now()
	expiresAt := now.Add(g.ttl)
	claims := AdminClaims{
		StandardClaims: jwt.StandardClaims{
			Subject:   adminSubject,
			IssuedAt:  now.Unix(),
			ExpiresAt: expiresAt.Unix(),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign admin token: %w", err)
	}
	return token, expiresAt, nil
}

// ValidateToken accepts only unexpired HS256 tokens issued for the admin
func (g *AdminGate) ValidateToken(tokenString string) error {
	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return g.secret, nil
	})
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}

	if claims.Subject != adminSubject {
		return ErrInvalidToken
	}
	// StandardClaims.Valid uses the wall clock; recheck with the gate's clock
	if !claims.VerifyExpiresAt(g.now().Unix(), true) {
		return ErrInvalidToken
	}
	return nil
}
