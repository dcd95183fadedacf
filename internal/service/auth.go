package service

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("auth")

// AuthService validates bearer tokens minted by the auth provider. The
// board only ever needs "current user id or none" out of a token.
type AuthService struct {
	secret []byte
	issuer string
}

func NewAuthService(secret string, issuer string) *AuthService {
	return &AuthService{
		secret: []byte(secret),
		issuer: issuer,
	}
}

type AuthResult struct {
	UserID string
}

func (s *AuthService) AuthJwt(ctx context.Context, token string) (*AuthResult, error) {
	_, span := tracer.Start(ctx, "Auth.Service.AuthJwt")
	defer span.End()

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		span.RecordError(errors.Wrap(err, "jwt validation failed"))
		return nil, err
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		err := fmt.Errorf("unexpected claims type")
		span.RecordError(err)
		return nil, err
	}

	if s.issuer != "" {
		issuer, _ := claims.GetIssuer()
		if issuer != s.issuer {
			err := fmt.Errorf("jwt issuer mismatch: expected %s, got %s", s.issuer, issuer)
			span.RecordError(err)
			return nil, err
		}
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		err := fmt.Errorf("jwt subject missing")
		span.RecordError(err)
		return nil, err
	}

	return &AuthResult{UserID: subject}, nil
}
