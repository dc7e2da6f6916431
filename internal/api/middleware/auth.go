package middleware

import (
	"crypto/rsa"
	"crypto/subtle"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	apierrors "github.com/feral-file/ff-ticketing/internal/api/shared/errors"
	"github.com/feral-file/ff-ticketing/internal/domain"
	"github.com/feral-file/ff-ticketing/internal/logger"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	AUTH_TYPE_KEY    contextKey = "auth_type"
	AUTH_SUBJECT_KEY contextKey = "auth_subject"
	OPERATOR_KEY     contextKey = "operator"
)

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTPublicKey string // RSA public key in PEM format
	APIKeys      []string
}

// Claims are the JWT claims accepted by write endpoints. Operator is the door staff
// wallet recorded on check-in transactions.
type Claims struct {
	jwt.RegisteredClaims
	Operator string `json:"operator,omitempty"`
}

// AuthResult holds the result of authentication
type AuthResult struct {
	AuthType string // "jwt" or "apikey"
	Claims   *Claims
}

// Authenticator validates Authorization headers. Keys are parsed once at startup.
type Authenticator struct {
	publicKey *rsa.PublicKey
	apiKeys   [][]byte
}

// NewAuthenticator parses the configured public key and API keys
func NewAuthenticator(cfg AuthConfig) (*Authenticator, error) {
	a := &Authenticator{}
	if cfg.JWTPublicKey != "" {
		key, err := parseRSAPublicKey(cfg.JWTPublicKey)
		if err != nil {
			return nil, fmt.Errorf("failed to parse RSA public key: %w", err)
		}
		a.publicKey = key
	}
	for _, k := range cfg.APIKeys {
		if k = strings.TrimSpace(k); k != "" {
			a.apiKeys = append(a.apiKeys, []byte(k))
		}
	}
	return a, nil
}

// Authenticate validates the Authorization header
func (a *Authenticator) Authenticate(authHeader string) (*AuthResult, error) {
	if authHeader == "" {
		return nil, errors.New("missing Authorization header")
	}

	scheme, credentials, ok := strings.Cut(authHeader, " ")
	if !ok || credentials == "" {
		return nil, errors.New("invalid Authorization header format")
	}

	switch strings.ToLower(scheme) {
	case "bearer":
		claims, err := a.validateJWT(credentials)
		if err != nil {
			return nil, err
		}
		return &AuthResult{AuthType: "jwt", Claims: claims}, nil
	case "apikey":
		if err := a.validateAPIKey(credentials); err != nil {
			return nil, err
		}
		return &AuthResult{AuthType: "apikey"}, nil
	default:
		return nil, fmt.Errorf("unsupported authorization type: %s", scheme)
	}
}

// Auth returns a gin middleware accepting a JWT (Bearer) or an API key (ApiKey)
func Auth(cfg AuthConfig) gin.HandlerFunc {
	authenticator, err := NewAuthenticator(cfg)
	if err != nil {
		// Misconfigured keys must not open the endpoint
		logger.Error(err, zap.String("message", "Authentication disabled, rejecting all requests"))
		return func(c *gin.Context) {
			abort(c, apierrors.NewServiceUnavailableError("Authentication is not configured"))
		}
	}
	return authenticator.Middleware()
}

// Middleware returns the gin middleware of the authenticator
func (a *Authenticator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := a.Authenticate(c.GetHeader("Authorization"))
		if err != nil {
			logger.WarnCtx(c.Request.Context(), "Authentication failed",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			abort(c, apierrors.NewUnauthorizedError("Authentication failed", err.Error()))
			return
		}

		c.Set(string(AUTH_TYPE_KEY), result.AuthType)
		if result.Claims != nil {
			if result.Claims.Subject != "" {
				c.Set(string(AUTH_SUBJECT_KEY), result.Claims.Subject)
			}
			if domain.IsAddress(result.Claims.Operator) {
				c.Set(string(OPERATOR_KEY), domain.NormalizeAddress(result.Claims.Operator))
			}
		}

		c.Next()
	}
}

// OperatorFromContext returns the operator address carried by the caller's JWT, if any
func OperatorFromContext(c *gin.Context) string {
	return c.GetString(string(OPERATOR_KEY))
}

// validateJWT validates an RS256 token and returns its claims
func (a *Authenticator) validateJWT(tokenString string) (*Claims, error) {
	if a.publicKey == nil {
		return nil, errors.New("JWT public key not configured")
	}

	claims := &Claims{}
	// jwt/v5 validates exp and nbf while parsing
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.publicKey, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// validateAPIKey compares the key against every configured key in constant time
func (a *Authenticator) validateAPIKey(apiKey string) error {
	if len(a.apiKeys) == 0 {
		return errors.New("no API keys configured")
	}

	given := []byte(apiKey)
	match := 0
	for _, k := range a.apiKeys {
		match |= subtle.ConstantTimeCompare(given, k)
	}
	if match != 1 {
		return errors.New("invalid API key")
	}
	return nil
}

// parseRSAPublicKey parses an RSA public key from PEM format
func parseRSAPublicKey(publicKeyPEM string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(publicKeyPEM))
	if block == nil {
		return nil, errors.New("failed to parse PEM block containing public key")
	}

	// PKIX first, PKCS1 second
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return x509.ParsePKCS1PublicKey(block.Bytes)
	}

	rsaKey, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("public key is not an RSA key")
	}

	return rsaKey, nil
}
