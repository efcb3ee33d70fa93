package middleware

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"freight-admin/apperrors"
	"freight-admin/config"
	"freight-admin/constants"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signHS(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func claimsFor(sub string, perms ...string) jwt.MapClaims {
	list := make([]interface{}, 0, len(perms))
	for _, p := range perms {
		list = append(list, p)
	}
	return jwt.MapClaims{
		"sub":         sub,
		"email":       sub + "@example.com",
		"permissions": list,
		"exp":         time.Now().Add(time.Hour).Unix(),
	}
}

func newTestApp(handler fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Get("/protected", handler, func(c *fiber.Ctx) error {
		p, err := CurrentPrincipal(c)
		if err != nil {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.JSON(p)
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestRequirePermissions(t *testing.T) {
	guard := NewGuard(NewVerifier(config.AuthConfig{JWTSecret: testSecret}))
	app := newTestApp(guard.RequirePermissions(constants.LedgerPermissions...))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing token", "", fiber.StatusUnauthorized},
		{"malformed header", "Token abc", fiber.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", fiber.StatusUnauthorized},
		{"missing permission", "Bearer " + signHS(t, claimsFor("u1", constants.PermOperatorFull)), fiber.StatusForbidden},
		{"granted", "Bearer " + signHS(t, claimsFor("u1", constants.PermFinanceFull)), fiber.StatusOK},
		{"expired", "Bearer " + signHS(t, jwt.MapClaims{"sub": "u1", "exp": time.Now().Add(-time.Minute).Unix()}), fiber.StatusUnauthorized},
		{"no subject", "Bearer " + signHS(t, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}), fiber.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, app, tt.header)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestRequireAuthenticationStoresPrincipal(t *testing.T) {
	guard := NewGuard(NewVerifier(config.AuthConfig{JWTSecret: testSecret}))
	app := newTestApp(guard.RequireAuthentication())

	resp := doRequest(t, app, "Bearer "+signHS(t, claimsFor("driver-7")))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var p Principal
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&p))
	assert.Equal(t, "driver-7", p.ID)
	assert.Equal(t, "driver-7@example.com", p.Email)
}

func TestCookieFallback(t *testing.T) {
	guard := NewGuard(NewVerifier(config.AuthConfig{JWTSecret: testSecret}))
	app := newTestApp(guard.RequireAuthentication())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "access", Value: signHS(t, claimsFor("u2"))})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestVerifyRSAWithFetchedKey(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pemKey := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})

	fetches := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fetches++
		_ = json.NewEncoder(w).Encode(map[string]string{"key": string(pemKey)})
	}))
	defer srv.Close()

	v := NewVerifier(config.AuthConfig{PublicKeyURL: srv.URL})
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claimsFor("u3")).SignedString(key)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		claims, err := v.Verify(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, "u3", claims["sub"])
	}
	assert.Equal(t, 1, fetches)

	// HMAC tokens are rejected when no secret is configured.
	_, err = v.Verify(context.Background(), signHS(t, claimsFor("u3")))
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestPrincipalFromClaimsFallsBackToUID(t *testing.T) {
	p := PrincipalFromClaims(jwt.MapClaims{"uid": "42", "permissions": []interface{}{"a", 7, "b"}})
	assert.Equal(t, "42", p.ID)
	assert.Equal(t, []string{"a", "b"}, p.Permissions)
	assert.True(t, p.Has("b"))
	assert.False(t, p.Has("c"))
}

func TestCheckPermissionInController(t *testing.T) {
	guard := NewGuard(NewVerifier(config.AuthConfig{JWTSecret: testSecret}))
	app := fiber.New()
	app.Get("/check", guard.RequireAuthentication(), func(c *fiber.Ctx) error {
		if CheckPermissionInController(c, constants.PermAdminFull) {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.SendStatus(fiber.StatusForbidden)
	})

	tests := []struct {
		name  string
		perms []string
		want  int
	}{
		{"admin", []string{constants.PermAdminFull}, fiber.StatusNoContent},
		{"finance only", []string{constants.PermFinanceFull}, fiber.StatusForbidden},
		{"no permissions", nil, fiber.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/check", nil)
			req.Header.Set("Authorization", "Bearer "+signHS(t, claimsFor("u9", tt.perms...)))
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
