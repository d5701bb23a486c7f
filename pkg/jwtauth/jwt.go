package jwtauth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// RoleAdmin роль администратора каталога парковок
const RoleAdmin = "admin"

var (
	ErrInvalidToken = errors.New("jwtauth: invalid token")
	ErrNoSubject    = errors.New("jwtauth: token has no subject")
)

// Claims полезная нагрузка токена
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// IsAdmin проверяет роль администратора
func (c *Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// Manager проверяет HS256-токены, выпущенные сервисом авторизации
type Manager struct {
	secret []byte
	issuer string
}

// NewManager issuer может быть пустым - тогда издатель не проверяется
func NewManager(secret, issuer string) *Manager {
	return &Manager{secret: []byte(secret), issuer: issuer}
}

// Parse проверяет подпись и срок действия токена
func (m *Manager) Parse(tokenStr string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return nil, ErrInvalidToken
	}
	if c.Subject == "" {
		return nil, ErrNoSubject
	}
	return c, nil
}

// Issue подписывает токен (используется в тестах и локальной отладке)
func (m *Manager) Issue(subject, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}
