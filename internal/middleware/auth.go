package middleware

import (
	"encoding/json"
	"net/http"

	"food-delivery-api/internal/auth"
	"food-delivery-api/internal/utils"
)

// AuthMiddleware resolves the caller's identity from the bearer token.
// Requests without a token continue as anonymous; the authorization
// engine decides later whether anonymous is acceptable. A token that is
// present but invalid or expired is rejected here with 401.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := auth.ExtractAccessToken(r)
		if tokenStr == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := auth.ParseToken(tokenStr)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "error",
				"errors": map[string][]string{"token": {"invalid or expired token"}},
			})
			return
		}

		ctx := utils.SetUserContext(r.Context(), claims.UserID, claims.Email, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
