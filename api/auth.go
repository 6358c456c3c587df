package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// WalletHeader names the wallet when authentication is disabled. Without it
// requests act on the default identity.
const WalletHeader = "X-Wallet-Address"

const addressKey = "ezcoin.address"

// Verifier signs and checks HS256 bearer tokens whose subject is a wallet
// address.
type Verifier struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewVerifier returns a Verifier for secret. An empty issuer is not checked.
func NewVerifier(secret, issuer string) (*Verifier, error) {
	if len(secret) < 16 {
		return nil, errors.New("api: jwt secret must be at least 16 bytes")
	}
	return &Verifier{secret: []byte(secret), issuer: issuer, now: time.Now}, nil
}

// Sign issues a token for address valid for ttl.
func (v *Verifier) Sign(address string, ttl time.Duration) (string, error) {
	now := v.now()
	claims := jwt.RegisteredClaims{
		Subject:   address,
		Issuer:    v.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// Verify parses token and returns the wallet address it was issued for.
func (v *Verifier) Verify(token string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	var claims jwt.RegisteredClaims
	if _, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...); err != nil {
		return "", fmt.Errorf("api: verify token: %w", err)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", errors.New("api: token has no subject")
	}
	return claims.Subject, nil
}

// MiddlewareConfig controls auth enforcement behavior.
type MiddlewareConfig struct {
	// DisableAuth trusts WalletHeader instead of a bearer token.
	DisableAuth bool
	Logger      *slog.Logger
}

// Middleware resolves the caller's wallet address and stores it on the
// gin context.
func Middleware(verifier *Verifier, cfg MiddlewareConfig) gin.HandlerFunc {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *gin.Context) {
		if cfg.DisableAuth {
			c.Set(addressKey, strings.TrimSpace(c.GetHeader(WalletHeader)))
			c.Next()
			return
		}

		if verifier == nil {
			respondUnauthorized(c, "auth verifier not configured")
			return
		}

		token, ok := extractBearerToken(c.GetHeader("Authorization"))
		if !ok {
			logger.Info("auth failure", "path", c.Request.URL.Path, "reason", "missing or malformed authorization header")
			respondUnauthorized(c, "invalid authorization header")
			return
		}

		address, err := verifier.Verify(token)
		if err != nil {
			logger.Info("auth failure", "path", c.Request.URL.Path, "error", err)
			respondUnauthorized(c, "invalid token")
			return
		}

		c.Set(addressKey, address)
		c.Next()
	}
}

// Address returns the wallet address resolved by Middleware.
func Address(c *gin.Context) string {
	return c.GetString(addressKey)
}

func extractBearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}

func respondUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": message,
	})
}
