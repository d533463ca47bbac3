package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/taskforge-dev/taskforge/internal/types"
)

// Manager issues short-lived access JWTs and opaque refresh tokens. Refresh
// tokens are persisted by the caller; only access tokens are self-contained.
type Manager struct {
	accessSecret []byte
	accessTTL    time.Duration
	refreshTTL   time.Duration
}

func NewManager(accessSecret string, accessTTL, refreshTTL time.Duration) (*Manager, error) {
	if accessSecret == "" {
		return nil, fmt.Errorf("jwt access secret is not set")
	}

	return &Manager{
		accessSecret: []byte(accessSecret),
		accessTTL:    accessTTL,
		refreshTTL:   refreshTTL,
	}, nil
}

func (m *Manager) GenerateAccessToken(userID uint, role types.Role) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    string(role),
		"exp":     time.Now().Add(m.accessTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.accessSecret)
}

// VerifyAccessToken returns the user id and role embedded in a valid token.
func (m *Manager) VerifyAccessToken(tokenString string) (uint, types.Role, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.accessSecret, nil
	})

	if err != nil || !token.Valid {
		return 0, "", fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", fmt.Errorf("invalid token claims")
	}

	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return 0, "", fmt.Errorf("invalid user id in token claims")
	}

	roleString, ok := claims["role"].(string)
	if !ok || !types.Role(roleString).Valid() {
		return 0, "", fmt.Errorf("invalid role in token claims")
	}

	return uint(userIDFloat), types.Role(roleString), nil
}

// NewRefreshToken mints an opaque token value and its expiry.
func (m *Manager) NewRefreshToken() (string, time.Time) {
	return uuid.NewString(), time.Now().Add(m.refreshTTL)
}
