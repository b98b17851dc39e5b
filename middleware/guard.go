package middleware

import (
	"context"
	"net/http"
	"strings"

	otpAuth "github.com/MrEthical07/otpAuth"
)

type claimsContextKey struct{}

// ClaimsFromContext returns the assertion claims stored by RequireAssertion.
func ClaimsFromContext(ctx context.Context) (*otpAuth.AssertionClaims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(*otpAuth.AssertionClaims)
	return claims, ok
}

type assertionVerifier interface {
	VerifyAssertion(ctx context.Context, token string) (*otpAuth.AssertionClaims, error)
}

// RequireAssertion admits requests carrying a valid assertion as a bearer
// token and rejects the rest with 401.
func RequireAssertion(engine *otpAuth.Engine) func(http.Handler) http.Handler {
	if engine == nil {
		return requireAssertion(nil)
	}
	return requireAssertion(engine)
}

func requireAssertion(verifier assertionVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := verifier.VerifyAssertion(r.Context(), token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}
