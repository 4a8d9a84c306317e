package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AdminRole is the role claim value every admin credential must carry.
const AdminRole = "admin"

var ErrInvalidCredentials = errors.New("invalid admin credentials")

// AdminClaims is the claim set of an admin credential. It carries a role
// instead of a subject; the two credential kinds are never cross-accepted.
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AdminManager exchanges the configured admin password for short-lived
// admin credentials and verifies them. The password is checked against a
// bcrypt hash, never with a plain comparison.
type AdminManager struct {
	secret       []byte
	passwordHash []byte
	expiry       time.Duration
}

func NewAdminManager(secret, passwordHash string, expiry time.Duration) *AdminManager {
	return &AdminManager{
		secret:       []byte(secret),
		passwordHash: []byte(passwordHash),
		expiry:       expiry,
	}
}

// Login verifies the password and mints an admin credential on success.
func (m *AdminManager) Login(password string) (string, error) {
	if err := bcrypt.CompareHashAndPassword(m.passwordHash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := &AdminClaims{
		Role: AdminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Expiry reports how long issued admin credentials live.
func (m *AdminManager) Expiry() time.Duration {
	return m.expiry
}

// Verify checks signature and expiry and requires role == "admin".
func (m *AdminManager) Verify(tokenString string) error {
	if strings.TrimSpace(tokenString) == "" {
		return ErrMissingToken
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil {
		return ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*AdminClaims)
	if !ok || !parsed.Valid || claims.Role != AdminRole {
		return ErrInvalidToken
	}
	return nil
}
