package middleware

import (
	"net/http"
	"strings"

	internaljwt "room-chat-backend/internal/jwt"
)

// ValidateJWT guards REST endpoints. The token comes from the Authorization
// header (with or without a Bearer prefix) or, matching the websocket upgrade
// path, from the token query parameter.
func ValidateJWT(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString := r.Header.Get("Authorization")
		tokenString = strings.TrimPrefix(tokenString, "Bearer ")
		if tokenString == "" {
			tokenString = r.URL.Query().Get("token")
		}

		if tokenString == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		if _, err := internaljwt.ParseToken(tokenString); err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next(w, r)
	}
}
