package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"vidsight/internal/gateway"
)

// BearerAuth screens the Authorization header and stows the raw credential
// in the request context for the gateway to forward. The credential is
// minted and refreshed by an external collaborator; we never verify its
// signature, only reject requests whose token is absent, malformed, or
// visibly expired.
type BearerAuth struct{}

func NewBearerAuth() *BearerAuth {
	return &BearerAuth{}
}

func (a *BearerAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing authorization header", r)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid authorization format", r)
			return
		}

		token := parts[1]
		if gateway.CredentialExpired(token) {
			writeError(w, http.StatusUnauthorized, "TOKEN_EXPIRED", "Token has expired", r)
			return
		}

		next.ServeHTTP(w, r.WithContext(gateway.WithCredential(r.Context(), token)))
	})
}

func writeError(w http.ResponseWriter, status int, code, message string, r *http.Request) {
	requestID := r.Header.Get("X-Request-ID")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]interface{}{
			"code":       code,
			"message":    message,
			"request_id": requestID,
		},
	})
}
