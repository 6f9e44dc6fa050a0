package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vieerr/dearmom-backend/internal/models"
)

// ErrInvalidToken is returned for every verification failure. A tampered,
// malformed and expired token are deliberately indistinguishable to callers.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload of a signed token: a point-in-time snapshot of the
// user's contact list and pin, not a pointer into storage. It diverges from
// the stored record the moment contacts change server-side and is only
// brought back in sync by re-issuing a token from current storage.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string           `json:"userId"`
	Contacts []models.Contact `json:"contacts"`
	Pin      string           `json:"pin,omitempty"`
}

type JWTManager struct {
	secretKey     string
	tokenDuration time.Duration
}

// NewJWTManager creates a token codec signing with secretKey. A zero
// tokenDuration issues tokens without an expiry claim.
func NewJWTManager(secretKey string, tokenDuration time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:     secretKey,
		tokenDuration: tokenDuration,
	}
}

func (m *JWTManager) IssueToken(userID string, contacts []models.Contact, pin string) (string, error) {
	claims := Claims{
		UserID:   userID,
		Contacts: contacts,
		Pin:      pin,
	}
	if m.tokenDuration != 0 {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(m.tokenDuration))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.secretKey))
}

func (m *JWTManager) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(m.secretKey), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
