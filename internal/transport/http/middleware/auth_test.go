package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abramad/crisis-game-api/internal/config"
	jwtinfra "github.com/abramad/crisis-game-api/internal/infrastructure/jwt"
)

func newTestProvider(t *testing.T, expiry time.Duration) *jwtinfra.Provider {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	dir := t.TempDir()
	privPath := filepath.Join(dir, "private.pem")
	pubPath := filepath.Join(dir, "public.pem")

	privPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	require.NoError(t, os.WriteFile(privPath, privPEM, 0o600))

	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})
	require.NoError(t, os.WriteFile(pubPath, pubPEM, 0o600))

	p, err := jwtinfra.NewProvider(&config.Config{
		JWTPrivateKeyPath: privPath,
		JWTPublicKeyPath:  pubPath,
		JWTExpiry:         expiry,
	})
	require.NoError(t, err)
	return p
}

func authedRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestAuthAllowsValidToken(t *testing.T) {
	p := newTestProvider(t, time.Hour)
	token, err := p.Sign("admin", "admin")
	require.NoError(t, err)

	var seen *jwtinfra.Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	Auth(p)(next).ServeHTTP(rec, authedRequest(token))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "admin", seen.Username)
	assert.Equal(t, "admin", seen.Role)
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	p := newTestProvider(t, time.Hour)

	rec := httptest.NewRecorder()
	Auth(p)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler should not be reached")
	})).ServeHTTP(rec, authedRequest(""))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	p := newTestProvider(t, time.Hour)

	rec := httptest.NewRecorder()
	Auth(p)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler should not be reached")
	})).ServeHTTP(rec, authedRequest("not-a-jwt"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRejectsExpiredToken(t *testing.T) {
	p := newTestProvider(t, -time.Minute)
	token, err := p.Sign("admin", "admin")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	Auth(p)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler should not be reached")
	})).ServeHTTP(rec, authedRequest(token))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRejectsTokenFromAnotherKey(t *testing.T) {
	p := newTestProvider(t, time.Hour)
	other := newTestProvider(t, time.Hour)
	token, err := other.Sign("admin", "admin")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	Auth(p)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler should not be reached")
	})).ServeHTTP(rec, authedRequest(token))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
