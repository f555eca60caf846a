package web

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mlezhnev/moviehub/internal/server/models"
)

const anonFlashTTL = 5 * time.Minute

type anonFlashClaims struct {
	Kind    string `json:"kind"`
	Message string `json:"msg"`
	jwt.RegisteredClaims
}

// FlashSigner carries one-shot messages for visitors who have no session
// yet, such as an anonymous user bounced off a protected page. The message
// travels in a short-lived signed token so the client cannot forge or alter
// it.
type FlashSigner struct {
	secret []byte
	now    func() time.Time
}

// NewFlashSigner constructs a FlashSigner over the given HMAC secret.
func NewFlashSigner(secret string) *FlashSigner {
	return &FlashSigner{secret: []byte(secret), now: time.Now}
}

// Sign produces a token carrying a single message of the given kind.
func (s *FlashSigner) Sign(kind, message string) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, anonFlashClaims{
		Kind:    kind,
		Message: message,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(anonFlashTTL)),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing flash token: %w", err)
	}
	return signed, nil
}

// Parse verifies a token and returns the carried message as a Flash. An
// invalid, tampered, or expired token yields an empty Flash rather than an
// error: a stale message is simply dropped.
func (s *FlashSigner) Parse(tokenString string) models.Flash {
	if tokenString == "" {
		return models.Flash{}
	}

	claims := &anonFlashClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil || !token.Valid {
		return models.Flash{}
	}

	switch claims.Kind {
	case models.FlashSuccess:
		return models.Flash{Success: claims.Message}
	case models.FlashError:
		return models.Flash{Error: claims.Message}
	}
	return models.Flash{}
}
