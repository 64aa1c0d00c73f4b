// Package auth implements token issuance and verification: JWT access/refresh
// pairs, short-lived account activation tokens, and state-bound password
// reset tokens.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"bloghub/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	Issuer   = "bloghub-api"
	Audience = "bloghub-client"

	TypeAccess     = "access"
	TypeRefresh    = "refresh"
	TypeActivation = "activation"

	AccessTokenTTL     = time.Hour
	RefreshTokenTTL    = 7 * 24 * time.Hour
	ActivationTokenTTL = 24 * time.Hour
)

// Claims carried by a parsed token.
type Claims struct {
	UserID    uint
	Email     string
	Type      string
	JTI       string
	ExpiresAt time.Time
}

// JWTManager issues and verifies the application's JWTs.
type JWTManager struct {
	secret []byte
	now    func() time.Time
}

// NewJWTManager returns a manager signing with the given HMAC secret.
func NewJWTManager(secret string) *JWTManager {
	return &JWTManager{secret: []byte(secret), now: time.Now}
}

// IssuePair creates an access/refresh token pair for the user.
func (m *JWTManager) IssuePair(user *models.User) (access, refresh string, err error) {
	access, err = m.issue(user.ID, user.Email, TypeAccess, AccessTokenTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err = m.issue(user.ID, user.Email, TypeRefresh, RefreshTokenTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// IssueAccess creates a standalone access token.
func (m *JWTManager) IssueAccess(userID uint, email string) (string, error) {
	return m.issue(userID, email, TypeAccess, AccessTokenTTL)
}

// IssueActivation creates the short-lived token embedded in verification links.
func (m *JWTManager) IssueActivation(userID uint) (string, error) {
	return m.issue(userID, "", TypeActivation, ActivationTokenTTL)
}

func (m *JWTManager) issue(userID uint, email, typ string, ttl time.Duration) (string, error) {
	if len(m.secret) == 0 {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := m.now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iss": Issuer,
		"aud": Audience,
		"typ": typ,
		"exp": now.Add(ttl).Unix(),
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"jti": generateJTI(),
	}
	if email != "" {
		claims["email"] = email
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// generateJTI creates a unique JWT ID so individual tokens can be revoked.
func generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}

// ErrTokenExpired reports an otherwise-valid token past its expiry, so
// callers can word the failure distinctly ("Activation link expired").
var ErrTokenExpired = errors.New("token expired")

// ErrTokenInvalid covers every other parse or claim failure.
var ErrTokenInvalid = errors.New("invalid token")

// Parse validates a token of the expected type and returns its claims.
func (m *JWTManager) Parse(tokenString, expectedType string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("invalid signing method")
		}
		return m.secret, nil
	}, jwt.WithIssuer(Issuer), jwt.WithAudience(Audience), jwt.WithTimeFunc(m.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrTokenInvalid
	}

	typ, _ := mapClaims["typ"].(string)
	if expectedType != "" && typ != expectedType {
		return nil, ErrTokenInvalid
	}

	sub, ok := mapClaims["sub"].(string)
	if !ok {
		return nil, ErrTokenInvalid
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	claims := &Claims{
		UserID: uint(userID),
		Type:   typ,
	}
	if email, ok := mapClaims["email"].(string); ok {
		claims.Email = email
	}
	if jti, ok := mapClaims["jti"].(string); ok {
		claims.JTI = jti
	}
	if exp, ok := mapClaims["exp"].(float64); ok {
		claims.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return claims, nil
}
