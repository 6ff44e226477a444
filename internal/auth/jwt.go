// AngelaMos | 2026
// jwt.go

package auth

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/carterperez-dev/catalog-api/internal/config"
	"github.com/carterperez-dev/catalog-api/internal/core"
	"github.com/carterperez-dev/catalog-api/internal/middleware"
)

const (
	claimUserID   = "id"
	claimUsername = "username"
)

// JWTManager is the only place tokens are minted or checked. Tokens are
// HS256-signed with a process-wide secret; expiry is the only way out.
type JWTManager struct {
	secret []byte
	config config.JWTConfig
	now    func() time.Time
}

type Option func(*JWTManager)

// WithClock replaces time.Now for both issuing and validation.
func WithClock(now func() time.Time) Option {
	return func(m *JWTManager) {
		m.now = now
	}
}

func NewJWTManager(cfg config.JWTConfig, opts ...Option) (*JWTManager, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret is empty")
	}

	if cfg.AccessTokenExpire <= 0 {
		return nil, fmt.Errorf("jwt access token lifetime must be positive")
	}

	m := &JWTManager{
		secret: []byte(cfg.Secret),
		config: cfg,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

type IssuedToken struct {
	Token     string
	ExpiresIn string
	ExpiresAt time.Time
}

func (m *JWTManager) Issue(userID int64, username string) (*IssuedToken, error) {
	now := m.now()
	expiresAt := now.Add(m.config.AccessTokenExpire)

	token, err := jwt.NewBuilder().
		JwtID(uuid.New().String()).
		Issuer(m.config.Issuer).
		Audience([]string{m.config.Audience}).
		Subject(strconv.FormatInt(userID, 10)).
		IssuedAt(now).
		NotBefore(now).
		Expiration(expiresAt).
		Claim(claimUserID, userID).
		Claim(claimUsername, username).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), m.secret))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &IssuedToken{
		Token:     string(signed),
		ExpiresIn: FormatLifetime(m.config.AccessTokenExpire),
		ExpiresAt: expiresAt,
	}, nil
}

func (m *JWTManager) VerifyAccessToken(
	_ context.Context,
	tokenString string,
) (*middleware.TokenClaims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenMissing)
	}

	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.HS256(), m.secret),
		jwt.WithValidate(true),
		jwt.WithIssuer(m.config.Issuer),
		jwt.WithAudience(m.config.Audience),
		jwt.WithClock(jwt.ClockFunc(m.now)),
	)
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", classifyParseError(err))
	}

	var idFloat float64
	if err := token.Get(claimUserID, &idFloat); err != nil || idFloat <= 0 {
		return nil, fmt.Errorf(
			"verify token: missing id claim: %w",
			core.ErrTokenInvalid,
		)
	}

	var username string
	if err := token.Get(claimUsername, &username); err != nil || username == "" {
		return nil, fmt.Errorf(
			"verify token: missing username claim: %w",
			core.ErrTokenInvalid,
		)
	}

	claims := &middleware.TokenClaims{
		UserID:   int64(idFloat),
		Username: username,
	}

	if iat, ok := token.IssuedAt(); ok {
		claims.IssuedAt = iat
	}
	if exp, ok := token.Expiration(); ok {
		claims.ExpiresAt = exp
	}

	return claims, nil
}

func classifyParseError(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "exp") && strings.Contains(msg, "not satisfied"):
		return core.ErrTokenExpired
	case (strings.Contains(msg, "iat") || strings.Contains(msg, "nbf")) &&
		strings.Contains(msg, "not satisfied"):
		return core.ErrTokenVerificationFailed
	default:
		return core.ErrTokenInvalid
	}
}

// FormatLifetime renders a duration the way clients expect it in the
// expiresIn field: "1h", "30m", "45s".
func FormatLifetime(d time.Duration) string {
	switch {
	case d%time.Hour == 0:
		return fmt.Sprintf("%dh", d/time.Hour)
	case d%time.Minute == 0:
		return fmt.Sprintf("%dm", d/time.Minute)
	default:
		return fmt.Sprintf("%ds", d/time.Second)
	}
}
