package access

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/jwtauth"
	log "github.com/sirupsen/logrus"
)

// Authenticator verifies HS256 bearer tokens and attaches the resulting Principal.
// With an empty secret every request runs as Anonymous.
type Authenticator struct {
	tokenAuth *jwtauth.JWTAuth
}

// NewAuthenticator creates an authenticator for secret
func NewAuthenticator(secret string) *Authenticator {
	if secret == "" {
		log.Warn("JWT_SECRET not set, requests run as anonymous admin")
		return &Authenticator{}
	}
	return &Authenticator{tokenAuth: jwtauth.New("HS256", []byte(secret), nil)}
}

// Enabled reports whether tokens are verified
func (a *Authenticator) Enabled() bool {
	return a.tokenAuth != nil
}

// Middleware authenticates the request and stores the Principal on its context
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	if !a.Enabled() {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), Anonymous)))
		})
	}

	attach := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		p := Principal{Role: ParseRole(fmt.Sprint(claims["role"]))}
		if sub, ok := claims["sub"].(string); ok {
			p.UserID = sub
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
	})

	return jwtauth.Verifier(a.tokenAuth)(attach)
}

// Require rejects requests whose principal fails check with 403
func Require(check func(Role) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := FromContext(r.Context())
			if !ok || !check(p.Role) {
				writeError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
