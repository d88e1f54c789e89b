package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Lixing-Zhang/flytire/backend/internal/service"
)

type contextKey struct{}

// SessionVerifier checks admin session tokens.
type SessionVerifier interface {
	Verify(token string) (*service.Session, error)
}

// SessionAuth requires a valid admin session passed as
// "Authorization: Bearer <token>". The session is stored in the request
// context for SessionFromContext.
func SessionAuth(verifier SessionVerifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				unauthorized(w, "Unauthorized")
				return
			}

			sess, err := verifier.Verify(token)
			if err != nil {
				unauthorized(w, "Invalid session")
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, sess)))
		})
	}
}

// SessionFromContext returns the session attached by SessionAuth.
func SessionFromContext(ctx context.Context) (*service.Session, bool) {
	sess, ok := ctx.Value(contextKey{}).(*service.Session)
	return sess, ok
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "error": message})
}
