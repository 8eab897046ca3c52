package auth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookieName is the candidate session cookie.
const SessionCookieName = "candidate_session"

// CandidateSession identifies an applicant within one tenant. It carries no
// role: a session can only read the candidate's own applications.
type CandidateSession struct {
	TenantID    string
	CandidateID string
}

type candidateClaims struct {
	TenantID    string `json:"tenant_id"`
	CandidateID string `json:"candidate_id"`
	jwt.RegisteredClaims
}

// SessionManager signs and verifies candidate session cookies.
type SessionManager struct {
	secret []byte
	maxAge time.Duration
	secure bool
}

// NewSessionManager creates a session manager. maxAge bounds both the token
// lifetime and the cookie Max-Age.
func NewSessionManager(secret string, maxAge time.Duration, secure bool) *SessionManager {
	if secret == "" {
		secret = "change-me-in-production"
	}
	if maxAge <= 0 {
		maxAge = 30 * 24 * time.Hour
	}
	return &SessionManager{secret: []byte(secret), maxAge: maxAge, secure: secure}
}

// Issue mints a session token for a candidate.
func (sm *SessionManager) Issue(tenantID, candidateID string) (string, error) {
	if tenantID == "" || candidateID == "" {
		return "", fmt.Errorf("tenant_id and candidate_id required")
	}
	now := time.Now()
	claims := candidateClaims{
		TenantID:    tenantID,
		CandidateID: candidateID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sm.maxAge)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(sm.secret)
}

// Validate parses and verifies a session token.
func (sm *SessionManager) Validate(tokenString string) (*CandidateSession, error) {
	token, err := jwt.ParseWithClaims(tokenString, &candidateClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return sm.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse session failed: %w", err)
	}
	claims, ok := token.Claims.(*candidateClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid session claims")
	}
	if claims.TenantID == "" || claims.CandidateID == "" {
		return nil, fmt.Errorf("session missing tenant or candidate id")
	}
	return &CandidateSession{TenantID: claims.TenantID, CandidateID: claims.CandidateID}, nil
}

// Cookie wraps a session token in the portal cookie.
func (sm *SessionManager) Cookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sm.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   sm.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearCookie expires the portal cookie.
func (sm *SessionManager) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   sm.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// SessionFromRequest reads and validates the session cookie from a request.
func (sm *SessionManager) SessionFromRequest(r *http.Request) (*CandidateSession, error) {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		return nil, fmt.Errorf("no session cookie")
	}
	return sm.Validate(c.Value)
}
