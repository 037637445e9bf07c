package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"infinite-experiment/quartermaster/internal/auth"

	"github.com/golang-jwt/jwt/v5"
)

// ActorMiddleware resolves the acting user from a Bearer token and stores
// the claims in the request context. Authorization decisions happen
// upstream; this service only needs a verified actor identity for the audit
// trail.
func ActorMiddleware() func(http.Handler) http.Handler {
	secret := []byte(os.Getenv("JWT_SECRET"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				http.Error(w, "Unauthorized. Missing bearer token", http.StatusUnauthorized)
				return
			}

			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				http.Error(w, "Unauthorized. Invalid token", http.StatusUnauthorized)
				return
			}

			sub, _ := claims.GetSubject()
			if sub == "" {
				http.Error(w, "Unauthorized. Token has no subject", http.StatusUnauthorized)
				return
			}
			name, _ := claims["name"].(string)

			ctx := auth.SetActorClaims(r.Context(), &auth.JWTActorClaims{
				Subject: sub,
				Name:    name,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
