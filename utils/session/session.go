package session

import (
	"crypto/sha256"
	"errors"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
)

const (
	// CookieName is the session cookie set on login
	CookieName = "app_session"

	// CookieMaxAge is fixed from issuance, not sliding
	CookieMaxAge = 7 * 24 * time.Hour

	// keySalt domain-separates the session signing key from the raw secret,
	// so the same secret can never sign tokens for another purpose.
	keySalt = "app-session"
)

var (
	ErrMissingToken     = errors.New("no session token presented")
	ErrInvalidSignature = errors.New("invalid session signature")
)

// Claims are the minimal identity claims carried in the session token.
type Claims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	EntraOID string `json:"entra_oid"`
	jwt.RegisteredClaims
}

// Codec signs and verifies session tokens. Verification is purely a function
// of the token and the derived key; there is no server-side session store.
type Codec struct {
	key []byte
}

// NewCodec derives the HS256 signing key from the configured secret and the
// fixed domain-separation salt.
func NewCodec(secret string) *Codec {
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte(keySalt))
	key := make([]byte, 32)
	if _, err := io.ReadFull(kdf, key); err != nil {
		// hkdf only fails when asked for more output than SHA-256 allows
		panic(err)
	}
	return &Codec{key: key}
}

// Issue produces a signed token for the given claims, valid for 7 days.
func (c *Codec) Issue(claims Claims) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(CookieMaxAge)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.key)
}

// Verify decodes a token back into claims. An empty token yields
// ErrMissingToken; any tampered, expired, or foreign-secret token yields
// ErrInvalidSignature.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return c.key, nil
	})
	if err != nil {
		return nil, ErrInvalidSignature
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidSignature
	}

	return claims, nil
}

// SetLoginCookie attaches the session token as an http-only lax cookie.
func SetLoginCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(CookieMaxAge.Seconds()),
		HTTPOnly: true,
		Secure:   false, // true in production (HTTPS)
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// ClearLoginCookie removes the session cookie. Safe to call with no session.
func ClearLoginCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
