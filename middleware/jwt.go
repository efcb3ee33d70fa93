package middleware

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"freight-admin/apperrors"
	"freight-admin/config"
	"freight-admin/logger"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier checks bearer tokens. Tokens signed with HS256 are checked
// against the shared secret, RS256 tokens against the public key served at
// PUBLIC_KEY_URL.
type Verifier struct {
	secret       []byte
	publicKeyURL string
	httpClient   *http.Client

	mu        sync.Mutex
	publicKey *rsa.PublicKey
}

func NewVerifier(cfg config.AuthConfig) *Verifier {
	return &Verifier{
		secret:       []byte(cfg.JWTSecret),
		publicKeyURL: cfg.PublicKeyURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewVerifierWithKey builds a verifier with a preloaded RSA key.
func NewVerifierWithKey(secret string, key *rsa.PublicKey) *Verifier {
	return &Verifier{secret: []byte(secret), publicKey: key, httpClient: &http.Client{Timeout: 10 * time.Second}}
}

// Verify parses the token and returns its claims.
func (v *Verifier) Verify(ctx context.Context, tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		switch token.Method.(type) {
		case *jwt.SigningMethodHMAC:
			if len(v.secret) == 0 {
				return nil, fmt.Errorf("hmac tokens are not accepted")
			}
			return v.secret, nil
		case *jwt.SigningMethodRSA:
			return v.rsaKey(ctx)
		default:
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthenticated, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", apperrors.ErrUnauthenticated)
	}
	return claims, nil
}

func (v *Verifier) rsaKey(ctx context.Context) (*rsa.PublicKey, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.publicKey != nil {
		return v.publicKey, nil
	}
	if v.publicKeyURL == "" {
		return nil, fmt.Errorf("rsa tokens are not accepted")
	}
	key, err := FetchPublicKey(ctx, v.httpClient, v.publicKeyURL)
	if err != nil {
		logger.Error("Failed to fetch public key", err)
		return nil, err
	}
	v.publicKey = key
	return key, nil
}

// FetchPublicKey fetches the PEM encoded RSA key from a JSON {"key": "..."}
// document.
func FetchPublicKey(ctx context.Context, client *http.Client, url string) (*rsa.PublicKey, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch public key: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	keyResponse := struct {
		Key string `json:"key"`
	}{}
	if err := json.Unmarshal(body, &keyResponse); err != nil {
		return nil, fmt.Errorf("failed to unmarshal public key response: %w", err)
	}

	block, _ := pem.Decode([]byte(keyResponse.Key))
	if block == nil || block.Type != "PUBLIC KEY" {
		return nil, fmt.Errorf("failed to decode PEM block containing public key")
	}

	pubKey, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	rsaPubKey, ok := pubKey.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("not an RSA public key")
	}
	return rsaPubKey, nil
}
