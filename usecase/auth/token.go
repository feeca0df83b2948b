package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/taskforge/backend/domain"
)

// Token kinds carried in the "type" claim.
const (
	TokenKindAccess  = "access"
	TokenKindRefresh = "refresh"
)

// TokenPair bundles the credentials returned by signup, login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
}

type tokenClaims struct {
	Kind string `json:"type"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed, time-limited bearer tokens.
// The subject claim always carries the user id.
type TokenService struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenService builds a TokenService. TTLs fall back to 30 minutes and
// 7 days when unset.
func NewTokenService(secret, issuer string, accessTTL, refreshTTL time.Duration) *TokenService {
	if accessTTL <= 0 {
		accessTTL = 30 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &TokenService{
		secret:     []byte(secret),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Issue signs a token of the given kind for the user.
func (s *TokenService) Issue(userID, kind string) (string, error) {
	ttl := s.accessTTL
	if kind == TokenKindRefresh {
		ttl = s.refreshTTL
	}

	now := time.Now()
	claims := tokenClaims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// IssuePair signs an access and refresh token for the user.
func (s *TokenService) IssuePair(userID string) (*TokenPair, error) {
	access, err := s.Issue(userID, TokenKindAccess)
	if err != nil {
		return nil, err
	}
	refresh, err := s.Issue(userID, TokenKindRefresh)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}

// Verify validates signature, expiry and kind, returning the embedded user
// id. Expired, tampered and malformed tokens all collapse to the same
// unauthorized error; callers never see the distinction.
func (s *TokenService) Verify(tokenString, kind string) (string, error) {
	var claims tokenClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrUnauthorized
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", domain.ErrUnauthorized
	}
	if claims.Kind != kind || claims.Subject == "" {
		return "", domain.ErrUnauthorized
	}
	return claims.Subject, nil
}
