package utils // package utils provides helpers for signed form tokens and session hashing

import (
    "crypto/sha256"
    "encoding/hex"
    "errors"
    "fmt"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/google/uuid"
)

// FormTokenTTL bounds how long an admin form may stay open before submit.
const FormTokenTTL = 2 * time.Hour

// ErrFormToken is returned for missing, expired or foreign form tokens.
var ErrFormToken = errors.New("invalid form token")

// formClaims binds a token to one admin session.  Sub carries the hash of
// the session cookie, never the cookie itself.
type formClaims struct {
    jwt.RegisteredClaims
}

// NewFormToken signs an HS256 JWT that admin forms post back as "_csrf".
// sessionHash ties the token to the session that rendered the form.
func NewFormToken(secret, sessionHash string, ttl time.Duration) (string, error) {
    now := time.Now().UTC()
    claims := formClaims{jwt.RegisteredClaims{
        Subject:   sessionHash,
        ID:        uuid.NewString(),
        IssuedAt:  jwt.NewNumericDate(now),
        ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
    }}
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return "", fmt.Errorf("sign form token: %w", err)
    }
    return signed, nil
}

// VerifyFormToken checks the signature, expiry and session binding of raw.
func VerifyFormToken(secret, raw, sessionHash string) error {
    if raw == "" {
        return ErrFormToken
    }
    var claims formClaims
    tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrFormToken
        }
        return []byte(secret), nil
    }, jwt.WithExpirationRequired())
    if err != nil || !tok.Valid {
        return ErrFormToken
    }
    if claims.Subject != sessionHash {
        return ErrFormToken
    }
    return nil
}

// HashSession returns the hex SHA-256 of a session token.  Logs, rate-limit
// keys and form tokens use the hash so the raw cookie never leaves the
// request.
func HashSession(raw string) string {
    if raw == "" {
        return ""
    }
    sum := sha256.Sum256([]byte(raw))
    return hex.EncodeToString(sum[:])
}
