// Package auth verifies the two kinds of credentials the service accepts:
// staff bearer tokens minted by the identity provider, and candidate session
// cookies minted locally when an application is submitted.
package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// StaffClaims are the claims of a staff bearer token. Subject is the
// provider's external user id; OrgID and OrgRole scope the token to one
// organization membership.
type StaffClaims struct {
	OrgID   string `json:"org_id"`
	OrgRole string `json:"org_role"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies staff tokens.
type TokenManager struct {
	secret string
	issuer string
}

// NewTokenManager creates a token manager. An empty issuer defaults to
// "hireloop".
func NewTokenManager(secret, issuer string) *TokenManager {
	if secret == "" {
		secret = "change-me-in-production"
	}
	if issuer == "" {
		issuer = "hireloop"
	}
	return &TokenManager{secret: secret, issuer: issuer}
}

// GenerateToken mints a staff token. Used by the CLI and tests; in
// production the identity provider mints tokens with the shared secret.
func (tm *TokenManager) GenerateToken(externalUserID, orgID, orgRole string, expiresIn time.Duration) (string, error) {
	if externalUserID == "" || orgID == "" {
		return "", fmt.Errorf("subject and org_id required")
	}
	now := time.Now()
	claims := StaffClaims{
		OrgID:   orgID,
		OrgRole: orgRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   externalUserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			Issuer:    tm.issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(tm.secret))
}

// ValidateToken parses and verifies a staff token.
func (tm *TokenManager) ValidateToken(tokenString string) (*StaffClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &StaffClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(tm.secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token failed: %w", err)
	}
	claims, ok := token.Claims.(*StaffClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.Subject == "" || claims.OrgID == "" {
		return nil, fmt.Errorf("token missing subject or org_id")
	}
	return claims, nil
}

// ExtractToken pulls the bearer token out of an Authorization header.
func ExtractToken(authHeader string) (string, error) {
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", fmt.Errorf("invalid authorization header")
	}
	return parts[1], nil
}
