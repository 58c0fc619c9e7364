package jwtverifier

import (
	"context"
	"errors"
	"strings"

	"abrigo-animais/internal/ports/auth"
	"abrigo-animais/pkg/token"
)

var ErrTokenEmpty = errors.New("token is empty")

// Verifier implementa auth.AuthVerifier sobre o serviço local de tokens.
type Verifier struct {
	tokens *token.Service
}

func New(tokens *token.Service) *Verifier {
	return &Verifier{tokens: tokens}
}

func (v *Verifier) Verify(ctx context.Context, raw string) (auth.Claims, error) {
	if v == nil || v.tokens == nil {
		return auth.Claims{}, errors.New("token service not configured")
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	claims, err := v.tokens.Validate(raw)
	if err != nil {
		return auth.Claims{}, err
	}
	if strings.TrimSpace(claims.UserID) == "" {
		return auth.Claims{}, errors.New("claims missing user id")
	}

	return auth.Claims{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
	}, nil
}
