package middleware_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-ticketing/internal/api/middleware"
	"github.com/feral-file/ff-ticketing/internal/logger"
)

const operator = "0x4444444444444444444444444444444444444444"

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func generateKey(t *testing.T) (*rsa.PrivateKey, string) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pemKey := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})

	return key, string(pemKey)
}

func signToken(t *testing.T, key *rsa.PrivateKey, claims middleware.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestAuthenticator_Authenticate(t *testing.T) {
	key, publicKey := generateKey(t)
	otherKey, _ := generateKey(t)

	auth, err := middleware.NewAuthenticator(middleware.AuthConfig{
		JWTPublicKey: publicKey,
		APIKeys:      []string{"key-one", " key-two "},
	})
	require.NoError(t, err)

	valid := middleware.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "door-7",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Operator: operator,
	}

	t.Run("valid jwt", func(t *testing.T) {
		result, err := auth.Authenticate("Bearer " + signToken(t, key, valid))
		require.NoError(t, err)
		assert.Equal(t, "jwt", result.AuthType)
		assert.Equal(t, "door-7", result.Claims.Subject)
		assert.Equal(t, operator, result.Claims.Operator)
	})

	t.Run("expired jwt", func(t *testing.T) {
		expired := valid
		expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		_, err := auth.Authenticate("Bearer " + signToken(t, key, expired))
		assert.Error(t, err)
	})

	t.Run("jwt without expiry", func(t *testing.T) {
		noExpiry := valid
		noExpiry.ExpiresAt = nil
		_, err := auth.Authenticate("Bearer " + signToken(t, key, noExpiry))
		assert.Error(t, err)
	})

	t.Run("jwt signed by another key", func(t *testing.T) {
		_, err := auth.Authenticate("Bearer " + signToken(t, otherKey, valid))
		assert.Error(t, err)
	})

	t.Run("api keys are trimmed", func(t *testing.T) {
		result, err := auth.Authenticate("ApiKey key-two")
		require.NoError(t, err)
		assert.Equal(t, "apikey", result.AuthType)
		assert.Nil(t, result.Claims)
	})

	t.Run("unknown api key", func(t *testing.T) {
		_, err := auth.Authenticate("ApiKey key-three")
		assert.Error(t, err)
	})

	t.Run("malformed header", func(t *testing.T) {
		for _, header := range []string{"", "Bearer", "Basic dXNlcjpwYXNz"} {
			_, err := auth.Authenticate(header)
			assert.Error(t, err, header)
		}
	})
}

func TestNewAuthenticator_InvalidKey(t *testing.T) {
	_, err := middleware.NewAuthenticator(middleware.AuthConfig{JWTPublicKey: "not a pem"})
	assert.Error(t, err)
}

func TestAuth_Middleware(t *testing.T) {
	key, publicKey := generateKey(t)

	router := gin.New()
	router.POST("/check-in", middleware.Auth(middleware.AuthConfig{JWTPublicKey: publicKey}), func(c *gin.Context) {
		c.String(http.StatusOK, middleware.OperatorFromContext(c))
	})

	token := signToken(t, key, middleware.Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		Operator:         operator,
	})

	req := httptest.NewRequest(http.MethodPost, "/check-in", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, operator, w.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/check-in", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_MisconfiguredKeyRejectsEverything(t *testing.T) {
	router := gin.New()
	router.POST("/check-in", middleware.Auth(middleware.AuthConfig{JWTPublicKey: "garbage", APIKeys: []string{"k"}}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/check-in", nil)
	req.Header.Set("Authorization", "ApiKey k")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(middleware.RequestID())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	generated := w.Header().Get(middleware.REQUEST_ID_HEADER)
	assert.NotEmpty(t, generated)

	incoming := "6f1c0b8e-4c1d-4a52-9d0f-5e3b2a1c7d90"
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.REQUEST_ID_HEADER, incoming)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, incoming, w.Header().Get(middleware.REQUEST_ID_HEADER))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.REQUEST_ID_HEADER, "not-a-uuid\n")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.NotEqual(t, "not-a-uuid\n", w.Header().Get(middleware.REQUEST_ID_HEADER))
}
