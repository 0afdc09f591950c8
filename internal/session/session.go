// Package session verifies bearer tokens issued by the external identity provider.
//
// The provider signs short-lived EdDSA tokens carrying the user id as the
// subject and the account email as a private claim. This package only
// verifies; token issuance (the authentication protocol itself) lives
// entirely with the provider.
package session

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/louisbranch/arbor.space/internal/platform/errors"
	"github.com/louisbranch/arbor.space/internal/platform/requestctx"
)

// sessionEnv holds raw env values before post-parse validation.
type sessionEnv struct {
	Issuer    string `env:"ARBOR_SPACE_AUTH_ISSUER"`
	Audience  string `env:"ARBOR_SPACE_AUTH_AUDIENCE"`
	PublicKey string `env:"ARBOR_SPACE_AUTH_PUBLIC_KEY"`
}

// Config defines how bearer tokens are verified.
type Config struct {
	Issuer   string
	Audience string
	Key      ed25519.PublicKey
	Now      func() time.Time
}

// claims is the internal claims type used for JWT parsing.
type claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// LoadConfigFromEnv reads token verification configuration.
func LoadConfigFromEnv(now func() time.Time) (Config, error) {
	var raw sessionEnv
	if err := env.Parse(&raw); err != nil {
		return Config{}, fmt.Errorf("parse session env: %w", err)
	}
	issuer := strings.TrimSpace(raw.Issuer)
	audience := strings.TrimSpace(raw.Audience)
	publicKey := strings.TrimSpace(raw.PublicKey)
	if issuer == "" {
		return Config{}, fmt.Errorf("ARBOR_SPACE_AUTH_ISSUER is required")
	}
	if audience == "" {
		return Config{}, fmt.Errorf("ARBOR_SPACE_AUTH_AUDIENCE is required")
	}
	if publicKey == "" {
		return Config{}, fmt.Errorf("ARBOR_SPACE_AUTH_PUBLIC_KEY is required")
	}
	keyBytes, err := decodeBase64(publicKey)
	if err != nil {
		return Config{}, fmt.Errorf("decode auth public key: %w", err)
	}
	if len(keyBytes) != ed25519.PublicKeySize {
		return Config{}, fmt.Errorf("auth public key must be %d bytes", ed25519.PublicKeySize)
	}
	if now == nil {
		now = time.Now
	}
	return Config{
		Issuer:   issuer,
		Audience: audience,
		Key:      ed25519.PublicKey(keyBytes),
		Now:      now,
	}, nil
}

// Verifier validates bearer tokens into caller identities.
type Verifier struct {
	cfg Config
}

// NewVerifier builds a verifier from a complete configuration.
func NewVerifier(cfg Config) (*Verifier, error) {
	if cfg.Issuer == "" || cfg.Audience == "" || len(cfg.Key) != ed25519.PublicKeySize {
		return nil, errors.New("session verifier is not configured")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Verifier{cfg: cfg}, nil
}

// Verify validates a bearer token and returns the caller identity.
func (v *Verifier) Verify(token string) (requestctx.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return requestctx.Identity{}, apperrors.E(apperrors.KindUnauthorized, "bearer token is required")
	}

	var parsed claims
	_, err := jwt.ParseWithClaims(token, &parsed, func(*jwt.Token) (any, error) {
		return v.cfg.Key, nil
	},
		jwt.WithValidMethods([]string{"EdDSA"}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return requestctx.Identity{}, mapJWTError(err)
	}

	if parsed.Issuer == "" || parsed.Issuer != v.cfg.Issuer {
		return requestctx.Identity{}, apperrors.E(apperrors.KindUnauthorized, "token issuer mismatch")
	}
	if !audienceContains(parsed.Audience, v.cfg.Audience) {
		return requestctx.Identity{}, apperrors.E(apperrors.KindUnauthorized, "token audience mismatch")
	}
	if parsed.ExpiresAt == nil {
		return requestctx.Identity{}, apperrors.E(apperrors.KindUnauthorized, "token exp is required")
	}

	now := v.cfg.Now().UTC()
	if !parsed.ExpiresAt.Time.UTC().After(now) {
		return requestctx.Identity{}, apperrors.E(apperrors.KindUnauthorized, "token is expired")
	}
	if parsed.NotBefore != nil && now.Before(parsed.NotBefore.Time.UTC()) {
		return requestctx.Identity{}, apperrors.E(apperrors.KindUnauthorized, "token not active yet")
	}

	userID := strings.TrimSpace(parsed.Subject)
	if userID == "" {
		return requestctx.Identity{}, apperrors.E(apperrors.KindUnauthorized, "token subject is required")
	}

	return requestctx.Identity{
		UserID: userID,
		Email:  strings.TrimSpace(parsed.Email),
	}, nil
}

// mapJWTError translates jwt library errors to application errors.
func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenSignatureInvalid) || errors.Is(err, jwt.ErrEd25519Verification) {
		return apperrors.E(apperrors.KindUnauthorized, "token signature is invalid")
	}
	if errors.Is(err, jwt.ErrTokenUnverifiable) {
		return apperrors.E(apperrors.KindUnauthorized, "token alg is invalid")
	}
	return apperrors.E(apperrors.KindUnauthorized, "token is malformed")
}

func audienceContains(audience jwt.ClaimStrings, want string) bool {
	for _, value := range audience {
		if value == want {
			return true
		}
	}
	return false
}

func decodeBase64(value string) ([]byte, error) {
	if decoded, err := base64.StdEncoding.DecodeString(value); err == nil {
		return decoded, nil
	}
	return base64.RawStdEncoding.DecodeString(value)
}
