// Package auth issues and validates holder session tokens for the HTTP
// facade.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	bearerPrefix = "Bearer "

	// ContextKey is the gin context key under which validated claims are stored.
	ContextKey = "session_claims"
)

var (
	ErrInvalidManagerConfig = errors.New("invalid session manager config")
	ErrInvalidToken         = errors.New("invalid session token")
)

// Claims carries the authenticated holder identity.
type Claims struct {
	Holder string `json:"holder"`
	jwt.RegisteredClaims
}

// Manager signs and verifies HS256 session tokens.
type Manager struct {
	signingKey []byte
	issuer     string
	ttl        time.Duration
	nowFn      func() time.Time
}

// NewManager validates and wires a Manager.
func NewManager(signingKey []byte, issuer string, ttl time.Duration) (*Manager, error) {
	if len(signingKey) == 0 {
		return nil, fmt.Errorf("%w: signing key is empty", ErrInvalidManagerConfig)
	}
	if strings.TrimSpace(issuer) == "" {
		return nil, fmt.Errorf("%w: issuer is empty", ErrInvalidManagerConfig)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("%w: ttl must be positive", ErrInvalidManagerConfig)
	}
	return &Manager{
		signingKey: signingKey,
		issuer:     issuer,
		ttl:        ttl,
		nowFn:      time.Now,
	}, nil
}

// Issue signs a session token for the supplied holder.
func (manager *Manager) Issue(holder string) (string, time.Time, error) {
	now := manager.nowFn()
	expiresAt := now.Add(manager.ttl)
	claims := Claims{
		Holder: holder,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    manager.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(manager.signingKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// Validate parses a token string and returns its claims.
func (manager *Manager) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: unexpected signing method %v", ErrInvalidToken, token.Header["alg"])
		}
		return manager.signingKey, nil
	}, jwt.WithIssuer(manager.issuer), jwt.WithExpirationRequired(), jwt.WithTimeFunc(manager.nowFn))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || strings.TrimSpace(claims.Holder) == "" {
		return nil, fmt.Errorf("%w: missing holder claim", ErrInvalidToken)
	}
	return claims, nil
}

// GinMiddleware rejects requests without a valid bearer token and stores the
// claims under ContextKey.
func (manager *Manager) GinMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			abortUnauthorized(ctx, "missing bearer token")
			return
		}
		claims, err := manager.Validate(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			abortUnauthorized(ctx, "invalid session")
			return
		}
		ctx.Set(ContextKey, claims)
		ctx.Next()
	}
}

// HolderFromContext extracts the authenticated holder from a gin context.
func HolderFromContext(ctx *gin.Context) (string, bool) {
	value, exists := ctx.Get(ContextKey)
	if !exists {
		return "", false
	}
	claims, ok := value.(*Claims)
	if !ok {
		return "", false
	}
	return claims.Holder, true
}

func abortUnauthorized(ctx *gin.Context, message string) {
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{"code": "unauthorized", "message": message},
	})
}
