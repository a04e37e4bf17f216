package http

import (
	"context"
	"net/http"
	"strings"

	"givehub-backend/internal/security"
)

type contextKey string

const claimsKey contextKey = "user-claims"

// AuthMiddleware validates the bearer token and injects the claims into the
// request context
type AuthMiddleware struct {
	tokenManager security.TokenManager
}

func NewAuthMiddleware(tm security.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokenManager: tm}
}

// Handler wraps next with bearer token authentication
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := extractBearer(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errorBody{Code: "UNAUTHENTICATED", Message: "authorization token is not provided"})
			return
		}

		claims, err := m.tokenManager.ValidateToken(token)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorBody{Code: "UNAUTHENTICATED", Message: err.Error()})
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func extractBearer(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	// Remove Bearer prefix if present
	if len(header) > 7 && strings.ToUpper(header[0:7]) == "BEARER " {
		return header[7:], true
	}
	return header, true
}

// CallerID returns the authenticated user ID from the request context.
// Routes behind AuthMiddleware always have one.
func CallerID(r *http.Request) int32 {
	claims, _ := r.Context().Value(claimsKey).(*security.UserClaims)
	if claims == nil {
		return 0
	}
	return claims.UserID
}
