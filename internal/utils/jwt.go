package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessToken represents a signed JWT along with the metadata callers need
// to revoke it later. Tokens carry a fixed TTL from issuance; validation
// never extends it.
type AccessToken struct {
	Token string    // the serialized JWT string
	JTI   string    // token identifier, the key of the revocation set
	Exp   time.Time // UTC expiration time
}

// Claims are the verified contents of an access token.
type Claims struct {
	UserID string // sub claim, the user's UUID
	Role   string // permission tier at issuance time
	JTI    string // token identifier
	Exp    time.Time
}

// ErrTokenInvalid covers malformed, mis-signed and expired tokens. The
// caller-facing outcome is identical for all three, so the distinction is
// deliberately not surfaced.
var ErrTokenInvalid = errors.New("invalid token")

// NewAccessToken builds and signs an HS256 JWT for a user. Every token gets
// a fresh UUID jti so individual tokens can be revoked at logout without
// touching the user's other sessions.
func NewAccessToken(secret, userID, role string, ttlMin int) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlMin) * time.Minute)
	jti := uuid.NewString()
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"jti":  jti,
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, JTI: jti, Exp: exp}, nil
}

// ParseAccessToken verifies the signature and expiry of a raw token string
// and returns its claims. Only HMAC-signed tokens are accepted; a token
// signed with any other method is rejected regardless of its payload.
func ParseAccessToken(secret, raw string) (Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return Claims{}, ErrTokenInvalid
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrTokenInvalid
	}
	var c Claims
	if v, ok := mc["sub"].(string); ok {
		c.UserID = v
	}
	if v, ok := mc["role"].(string); ok {
		c.Role = v
	}
	if v, ok := mc["jti"].(string); ok {
		c.JTI = v
	}
	if c.UserID == "" || c.JTI == "" {
		return Claims{}, ErrTokenInvalid
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.Exp = exp.Time.UTC()
	}
	return c, nil
}
