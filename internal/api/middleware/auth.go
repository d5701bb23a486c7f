package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/pkg/jwtauth"
)

const (
	msgInvalidToken = "некорректный токен авторизации"
	msgUnauthorized = "требуется авторизация"
	msgForbidden    = "доступ запрещен"
)

type claimsKey struct{}

// Auth разбирает необязательный bearer-токен
// Без заголовка запрос анонимный, с некорректным токеном - 401
func Auth(parser TokenParser, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(header)
			if !ok {
				logger.Warn("%s %s - malformed authorization header", r.Method, r.URL.Path)
				handlers.RespondUnauthorized(w, msgInvalidToken)
				return
			}

			claims, err := parser.Parse(token)
			if err != nil {
				logger.Warn("%s %s - invalid token: %v", r.Method, r.URL.Path, err)
				handlers.RespondUnauthorized(w, msgInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// RequireAdmin пропускает только токены с ролью admin
func RequireAdmin(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetClaims(r.Context())
			if claims == nil {
				logger.Warn("%s %s - admin route without token", r.Method, r.URL.Path)
				handlers.RespondUnauthorized(w, msgUnauthorized)
				return
			}
			if !claims.IsAdmin() {
				logger.Warn("%s %s - subject=%s is not admin", r.Method, r.URL.Path, claims.Subject)
				handlers.RespondForbidden(w, msgForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func WithClaims(ctx context.Context, claims *jwtauth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

func GetClaims(ctx context.Context) *jwtauth.Claims {
	claims, _ := ctx.Value(claimsKey{}).(*jwtauth.Claims)
	return claims
}

// GetUserID subject токена или nil для анонимного запроса
func GetUserID(ctx context.Context) *string {
	claims := GetClaims(ctx)
	if claims == nil {
		return nil
	}
	subject := claims.Subject
	return &subject
}

func IsAdmin(ctx context.Context) bool {
	claims := GetClaims(ctx)
	return claims != nil && claims.IsAdmin()
}

func bearerToken(header string) (string, bool) {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
