package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/Kosench/shortlink-analytics/internal/errors"
)

// Verifier проверяет HS256-токены, выпущенные внешним сервисом идентификации.
// Claim sub содержит идентификатор владельца.
type Verifier struct {
	secret []byte
	issuer string
}

func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{
		secret: []byte(secret),
		issuer: issuer,
	}
}

// OwnerID возвращает владельца из токена или ErrUnauthorized
func (v *Verifier) OwnerID(tokenString string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("invalid token: %w: %w", err, apperrors.ErrUnauthorized)
	}

	if claims.Subject == "" {
		return "", fmt.Errorf("token has no subject: %w", apperrors.ErrUnauthorized)
	}

	return claims.Subject, nil
}

// Issue подписывает токен для владельца; используется в тестах и локальной отладке
func (v *Verifier) Issue(ownerID string, ttl time.Duration) (string, error) {
	if ownerID == "" {
		return "", errors.New("owner id is required")
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   ownerID,
		Issuer:    v.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
