// Package auth resolves the calling user from request credentials.
// Account management lives outside this service; it only needs the
// viewer's id.
package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	apperrors "github.com/roozanaryal/TwitterClone-sub000/internal/errors"
)

// UserIDHeader carries the viewer id for HeaderResolver.
const UserIDHeader = "X-User-ID"

// IdentityResolver extracts the viewer id from a request. It returns an
// Unauthorized error when the request carries no usable identity.
type IdentityResolver interface {
	Resolve(r *http.Request) (string, error)
}

// Claims is the token payload issued for a user.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// JWTResolver accepts HS256 bearer tokens signed with a shared secret.
type JWTResolver struct {
	secret []byte
	issuer string
}

func NewJWTResolver(secret, issuer string) *JWTResolver {
	return &JWTResolver{secret: []byte(secret), issuer: issuer}
}

func (j *JWTResolver) Resolve(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", apperrors.Unauthorized("no token provided")
	}
	tokenString, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || tokenString == "" {
		return "", apperrors.Unauthorized("authorization header must be a bearer token")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if j.issuer != "" {
		opts = append(opts, jwt.WithIssuer(j.issuer))
	}

	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
		return j.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return "", apperrors.Unauthorized("invalid token")
	}
	if claims.UserID == "" {
		return "", apperrors.Unauthorized("token has no user_id")
	}
	return checkUserID(claims.UserID)
}

// IssueToken signs a token for userID. Used by the seeder and tests.
func IssueToken(secret, issuer, userID string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)

	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// HeaderResolver trusts the X-User-ID header. Only for tests and local
// development behind a trusted proxy.
type HeaderResolver struct{}

func (HeaderResolver) Resolve(r *http.Request) (string, error) {
	userID := strings.TrimSpace(r.Header.Get(UserIDHeader))
	if userID == "" {
		return "", apperrors.Unauthorized("authentication required")
	}
	return checkUserID(userID)
}

// checkUserID accepts only UUIDs, the form of every stored user id.
func checkUserID(userID string) (string, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return "", apperrors.Unauthorized("user id is not a valid UUID")
	}
	return userID, nil
}
