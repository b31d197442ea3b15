// AngelaMos | 2026
// action.go

package auth

import (
	"errors"
	"fmt"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/carterperez-dev/messhall/internal/config"
	"github.com/carterperez-dev/messhall/internal/core"
)

type Purpose string

const (
	PurposeVerifyEmail   Purpose = "verify_email"
	PurposeResetPassword Purpose = "reset_password"

	actionIssuer = "messhall"
)

// ActionClaims identify a user for one emailed action. They are never
// accepted as access tokens.
type ActionClaims struct {
	Purpose Purpose `json:"purpose"`
	jwtv5.RegisteredClaims
}

// ActionTokens signs the short-lived tokens embedded in email links.
type ActionTokens struct {
	secret       []byte
	verifyExpire time.Duration
	resetExpire  time.Duration
	now          func() time.Time
}

func NewActionTokens(cfg config.TokensConfig) *ActionTokens {
	return &ActionTokens{
		secret:       []byte(cfg.Secret),
		verifyExpire: cfg.VerificationExpire,
		resetExpire:  cfg.ResetExpire,
		now:          time.Now,
	}
}

func (a *ActionTokens) TTL(purpose Purpose) time.Duration {
	if purpose == PurposeResetPassword {
		return a.resetExpire
	}
	return a.verifyExpire
}

func (a *ActionTokens) Issue(purpose Purpose, userID string) (string, error) {
	now := a.now()
	claims := ActionClaims{
		Purpose: purpose,
		RegisteredClaims: jwtv5.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   userID,
			Issuer:    actionIssuer,
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(a.TTL(purpose))),
		},
	}

	signed, err := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", purpose, err)
	}
	return signed, nil
}

// Parse validates token and checks that it was issued for purpose.
func (a *ActionTokens) Parse(token string, purpose Purpose) (*ActionClaims, error) {
	claims := &ActionClaims{}
	_, err := jwtv5.ParseWithClaims(
		token,
		claims,
		func(*jwtv5.Token) (any, error) { return a.secret, nil },
		jwtv5.WithValidMethods([]string{jwtv5.SigningMethodHS256.Alg()}),
		jwtv5.WithIssuer(actionIssuer),
		jwtv5.WithExpirationRequired(),
		jwtv5.WithTimeFunc(a.now),
	)
	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return nil, fmt.Errorf("parse %s token: %w", purpose, core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("parse %s token: %w", purpose, core.ErrTokenInvalid)
	}

	if claims.Purpose != purpose || claims.Subject == "" || claims.ID == "" {
		return nil, fmt.Errorf("parse %s token: wrong purpose: %w", purpose, core.ErrTokenInvalid)
	}

	return claims, nil
}
