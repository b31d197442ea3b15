// AngelaMos | 2026
// jwt.go

package auth

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/carterperez-dev/messhall/internal/config"
	"github.com/carterperez-dev/messhall/internal/core"
	"github.com/carterperez-dev/messhall/internal/middleware"
)

const accessTokenType = "access"

// JWTManager signs ES256 access tokens and publishes the verifying key as a
// JWKS document.
type JWTManager struct {
	privateKey jwk.Key
	publicKey  jwk.Key
	publicJWKS jwk.Set
	keyID      string
	config     config.JWTConfig
}

func NewJWTManager(cfg config.JWTConfig) (*JWTManager, error) {
	privateKeyPEM, err := os.ReadFile(cfg.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}

	return newJWTManager(cfg, privateKeyPEM)
}

func newJWTManager(cfg config.JWTConfig, privateKeyPEM []byte) (*JWTManager, error) {
	privateKey, err := jwk.ParseKey(privateKeyPEM, jwk.WithPEM(true))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	keyID := uuid.New().String()[:8]
	if err := privateKey.Set(jwk.AlgorithmKey, jwa.ES256()); err != nil {
		return nil, fmt.Errorf("set algorithm: %w", err)
	}
	if err := privateKey.Set(jwk.KeyIDKey, keyID); err != nil {
		return nil, fmt.Errorf("set key id: %w", err)
	}

	publicKey, err := privateKey.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("derive public key: %w", err)
	}
	if err := publicKey.Set(jwk.KeyUsageKey, "sig"); err != nil {
		return nil, fmt.Errorf("set key usage: %w", err)
	}

	set := jwk.NewSet()
	if err := set.AddKey(publicKey); err != nil {
		return nil, fmt.Errorf("add key to set: %w", err)
	}

	return &JWTManager{
		privateKey: privateKey,
		publicKey:  publicKey,
		publicJWKS: set,
		keyID:      keyID,
		config:     cfg,
	}, nil
}

// EnsureKeyPair writes a fresh P-256 key pair when the configured private
// key does not exist yet. Existing keys are left untouched.
func EnsureKeyPair(cfg config.JWTConfig) (bool, error) {
	if _, err := os.Stat(cfg.PrivateKeyPath); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("stat private key: %w", err)
	}

	privatePEM, publicPEM, err := generateKeyPair()
	if err != nil {
		return false, err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.PrivateKeyPath), 0o700); err != nil {
		return false, fmt.Errorf("create key directory: %w", err)
	}
	if err := os.WriteFile(cfg.PrivateKeyPath, privatePEM, 0o600); err != nil {
		return false, fmt.Errorf("write private key: %w", err)
	}

	if cfg.PublicKeyPath != "" {
		//nolint:gosec // G306: public key is meant to be readable
		if err := os.WriteFile(cfg.PublicKeyPath, publicPEM, 0o644); err != nil {
			return false, fmt.Errorf("write public key: %w", err)
		}
	}

	return true, nil
}

func generateKeyPair() (privatePEM, publicPEM []byte, err error) {
	raw, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("generate key: %w", err)
	}

	private, err := jwk.Import(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("import private key: %w", err)
	}

	privatePEM, err = jwk.Pem(private)
	if err != nil {
		return nil, nil, fmt.Errorf("encode private key: %w", err)
	}

	public, err := private.PublicKey()
	if err != nil {
		return nil, nil, fmt.Errorf("derive public key: %w", err)
	}

	publicPEM, err = jwk.Pem(public)
	if err != nil {
		return nil, nil, fmt.Errorf("encode public key: %w", err)
	}

	return privatePEM, publicPEM, nil
}

func (m *JWTManager) KeyID() string {
	return m.keyID
}

func (m *JWTManager) AccessTokenTTL() time.Duration {
	return m.config.AccessTokenExpire
}

func (m *JWTManager) CreateAccessToken(
	claims middleware.AccessTokenClaims,
) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(m.config.AccessTokenExpire)

	token, err := jwt.NewBuilder().
		JwtID(uuid.New().String()).
		Issuer(m.config.Issuer).
		Audience([]string{m.config.Audience}).
		Subject(claims.UserID).
		IssuedAt(now).
		NotBefore(now).
		Expiration(expiresAt).
		Claim("role", claims.Role).
		Claim("token_version", claims.TokenVersion).
		Claim("type", accessTokenType).
		Build()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.ES256(), m.privateKey))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return string(signed), expiresAt, nil
}

func (m *JWTManager) VerifyAccessToken(
	_ context.Context,
	tokenString string,
) (*middleware.AccessTokenClaims, error) {
	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.ES256(), m.publicKey),
		jwt.WithValidate(true),
		jwt.WithIssuer(m.config.Issuer),
		jwt.WithAudience(m.config.Audience),
	)
	if err != nil {
		if isTokenExpiredError(err) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	var tokenType string
	if err := token.Get("type", &tokenType); err != nil || tokenType != accessTokenType {
		return nil, fmt.Errorf("verify token: invalid token type: %w", core.ErrTokenInvalid)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf("verify token: missing subject: %w", core.ErrTokenInvalid)
	}

	var role string
	if err := token.Get("role", &role); err != nil {
		return nil, fmt.Errorf("verify token: missing role claim: %w", core.ErrTokenInvalid)
	}

	var version float64
	if err := token.Get("token_version", &version); err != nil {
		return nil, fmt.Errorf("verify token: missing token_version claim: %w", core.ErrTokenInvalid)
	}

	return &middleware.AccessTokenClaims{
		UserID:       subject,
		Role:         role,
		TokenVersion: int(version),
	}, nil
}

func isTokenExpiredError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "exp") && strings.Contains(msg, "not satisfied")
}

func (m *JWTManager) JWKSHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "public, max-age=3600")

		if err := json.NewEncoder(w).Encode(m.publicJWKS); err != nil {
			slog.Error("encode jwks", "error", err)
		}
	}
}

type RefreshTokenData struct {
	Token     string
	Hash      string
	ExpiresAt time.Time
	FamilyID  string
}

// CreateRefreshToken returns an opaque token and its hash. An empty familyID
// starts a new family.
func (m *JWTManager) CreateRefreshToken(familyID string) (*RefreshTokenData, error) {
	token, err := core.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if familyID == "" {
		familyID = uuid.New().String()
	}

	return &RefreshTokenData{
		Token:     token,
		Hash:      core.HashToken(token),
		ExpiresAt: time.Now().Add(m.config.RefreshTokenExpire),
		FamilyID:  familyID,
	}, nil
}
