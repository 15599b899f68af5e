package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/intakehq/intake/internal/auth"
	"github.com/intakehq/intake/internal/core"
	"github.com/intakehq/intake/internal/metrics"
)

// claimsContextKey is a custom type to avoid context key collisions
type claimsContextKey string

const ClaimsContextKey claimsContextKey = "auth_claims"

// RequireRole verifies the bearer token on incoming requests and enforces the
// given role. Requests without a valid token get 401; requests whose token
// carries a different role get 403.
func RequireRole(tokens *auth.TokenService, role core.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				metrics.RecordAuthFailure("missing_token")
				writeAuthError(w, http.StatusUnauthorized, "Missing or malformed Authorization header")
				return
			}

			claims, err := tokens.Verify(raw)
			if err != nil {
				metrics.RecordAuthFailure("invalid_token")
				writeAuthError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			if core.Role(claims.Role) != role {
				metrics.RecordAuthFailure("role_mismatch")
				writeAuthError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClaims retrieves verified token claims from the request context.
func GetClaims(ctx context.Context) *auth.Claims {
	if claims, ok := ctx.Value(ClaimsContextKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
